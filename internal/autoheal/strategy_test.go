package autoheal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "", want: StrategySmartSequential},
		{in: "smart_sequential", want: StrategySmartSequential},
		{in: " DOM_ONLY ", want: StrategyDOMOnly},
		{in: "Parallel", want: StrategyParallel},
		{in: "VISUAL_FIRST", want: StrategyVisualFirst},
		{in: "SEQUENTIAL", want: StrategySequential},
		{in: "RANDOM", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategy_Stages(t *testing.T) {
	assert.Equal(t, []Stage{StageHeuristic, StageAIDOM}, StrategyDOMOnly.Stages())
	assert.Equal(t, []Stage{StageHeuristic, StageAIDOM, StageAIVisual}, StrategySmartSequential.Stages())
	assert.Equal(t, []Stage{StageAIDOM, StageAIVisual}, StrategySequential.Stages())
	assert.Equal(t, []Stage{StageAIVisual, StageAIDOM}, StrategyVisualFirst.Stages())
	assert.True(t, StrategyParallel.Concurrent())
	assert.False(t, StrategySmartSequential.Concurrent())
}
