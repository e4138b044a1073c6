package autoheal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicMatch_LoginPage(t *testing.T) {
	html := loginPageHTML(t)

	tests := []struct {
		name        string
		selector    string
		description string
		want        string
	}{
		{
			name:        "renamed username input",
			selector:    "#user-name-Wrong",
			description: "Username input field",
			want:        "#user-name",
		},
		{
			name:        "renamed login button",
			selector:    "#login-button-Wrong",
			description: "Login button",
			want:        "#login-button",
		},
		{
			name:        "renamed password input",
			selector:    "#password-Wrong",
			description: "Password input field",
			want:        "#password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := HeuristicMatch(html, tt.selector, tt.description)
			require.NoError(t, err)
			require.NotEmpty(t, candidates)

			assert.Equal(t, tt.want, candidates[0].Selector)
			assert.GreaterOrEqual(t, candidates[0].Score, 0.6)
			if len(candidates) > 1 {
				assert.Greater(t, candidates[0].Score, candidates[1].Score)
			}
		})
	}
}

func TestHeuristicMatch_InventoryButton(t *testing.T) {
	html := `<div class="inventory_list">
		<div class="inventory_item"><button class="btn" data-test="add-to-cart-sauce-labs-backpack" id="add-backpack">Add to cart</button></div>
		<div class="inventory_item"><button class="btn" data-test="add-to-cart-sauce-labs-bike-light" id="add-bike-light">Add to cart</button></div>
	</div>`

	candidates, err := HeuristicMatch(html, `[data-test="add-to-cart-backpack"]`, "Add backpack to cart button")
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "#add-backpack", candidates[0].Selector)
}

func TestHeuristicMatch_NoMatch(t *testing.T) {
	candidates, err := HeuristicMatch(`<div id="header">Swag Labs</div>`, "#checkout", "Checkout button")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestHeuristicMatch_TiedCandidatesAreMarkedAmbiguous(t *testing.T) {
	html := `<button id="save-draft">Save</button><button id="save-final">Save</button><a id="help">Help</a>`

	candidates, err := HeuristicMatch(html, "#save", "Save button")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.True(t, c.Ambiguous, c.Selector)
		assert.InDelta(t, 0.8, c.Score, 1e-9)
	}
}

func TestHeuristicMatch_ClearWinnerIsNotAmbiguous(t *testing.T) {
	candidates, err := HeuristicMatch(loginPageHTML(t), "#login-button-Wrong", "Login button")
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "#login-button", candidates[0].Selector)
	assert.False(t, candidates[0].Ambiguous)
}

func TestStableSelector_FallsBackWhenIDIsDuplicated(t *testing.T) {
	html := `<span id="badge" data-test="shopping-cart-badge">1</span><span id="badge">2</span>`

	candidates, err := HeuristicMatch(html, ".shopping_cart_badge", "Shopping cart badge")
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, `[data-test="shopping-cart-badge"]`, candidates[0].Selector)
}

func TestSelectorTokens(t *testing.T) {
	assert.Equal(t, []string{"user", "name", "wrong"}, selectorTokens("#user-name-Wrong"))
	assert.Equal(t, []string{"add", "cart", "sauce", "labs", "backpack"}, selectorTokens(`[data-test="add-to-cart-sauce-labs-backpack"]`))
	assert.Equal(t, []string{"title"}, selectorTokens(".title"))
}
