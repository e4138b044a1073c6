package autoheal

import (
	"fmt"
	"strings"
)

// Strategy orders the healing stages tried after the original selector fails
type Strategy string

// Healing strategies
const (
	StrategyDOMOnly         Strategy = "DOM_ONLY"
	StrategySmartSequential Strategy = "SMART_SEQUENTIAL"
	StrategySequential      Strategy = "SEQUENTIAL"
	StrategyVisualFirst     Strategy = "VISUAL_FIRST"
	StrategyParallel        Strategy = "PARALLEL"
)

// Stage is one way of producing a replacement selector
type Stage string

// Healing stages
const (
	StageHeuristic Stage = "heuristic"
	StageAIDOM     Stage = "ai_dom"
	StageAIVisual  Stage = "ai_visual"
)

// Source records where a returned selector came from
type Source string

// Selector sources; the three healing stages double as sources
const (
	SourceCache     Source = "cache"
	SourceOriginal  Source = "original"
	SourceHeuristic        = Source(StageHeuristic)
	SourceAIDOM            = Source(StageAIDOM)
	SourceAIVisual         = Source(StageAIVisual)
)

// ParseStrategy accepts a strategy name in any case; empty means SMART_SEQUENTIAL
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToUpper(strings.TrimSpace(name)))
	switch s {
	case "":
		return StrategySmartSequential, nil
	case StrategyDOMOnly, StrategySmartSequential, StrategySequential, StrategyVisualFirst, StrategyParallel:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Stages returns the healing stages in the order they are attempted.
// For PARALLEL the order only matters for tie-breaking.
func (s Strategy) Stages() []Stage {
	switch s {
	case StrategyDOMOnly:
		return []Stage{StageHeuristic, StageAIDOM}
	case StrategySequential:
		return []Stage{StageAIDOM, StageAIVisual}
	case StrategyVisualFirst:
		return []Stage{StageAIVisual, StageAIDOM}
	case StrategyParallel:
		return []Stage{StageHeuristic, StageAIDOM, StageAIVisual}
	default:
		return []Stage{StageHeuristic, StageAIDOM, StageAIVisual}
	}
}

// Concurrent reports whether the stages run at the same time
func (s Strategy) Concurrent() bool {
	return s == StrategyParallel
}

// usesAI reports whether the stage needs an AI provider
func (st Stage) usesAI() bool {
	return st == StageAIDOM || st == StageAIVisual
}
