package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectionDefaults(t *testing.T) {
	sel := NewSelection()

	sep, ok := sel.Separator()
	require.True(t, ok)
	assert.Equal(t, "Empty", sep.Name)

	casing, ok := sel.Casing()
	require.True(t, ok)
	assert.Equal(t, "No Change", casing.Name)
}

func TestNeutralSelection(t *testing.T) {
	sel := Neutral()

	sep, ok := sel.Separator()
	require.True(t, ok)
	assert.Equal(t, ": ", sep.Separator)

	casing, ok := sel.Casing()
	require.True(t, ok)
	assert.Equal(t, "unchanged text", casing.Apply("unchanged text"))

	item, ok := sel.ItemFormatting()
	require.True(t, ok)
	assert.Equal(t, "7", item.Apply("7"))

	enum, ok := sel.Enumeration()
	require.True(t, ok)
	assert.Equal(t, "3", enum.Token(3))
}

func TestSelectionAddActivates(t *testing.T) {
	sel := NewSelection()

	require.NoError(t, sel.Add(AxisSeparator, SeparatorRule{Meta{"Space", "Single space"}, " "}))
	active, ok := sel.Separator()
	require.True(t, ok)
	assert.Equal(t, "Space", active.Name)

	// Adding again replaces the active rule, not the catalog.
	require.NoError(t, sel.Add(AxisSeparator, SeparatorRule{Meta{"Pipe", "Double pipe"}, " || "}))
	active, ok = sel.Separator()
	require.True(t, ok)
	assert.Equal(t, "Pipe", active.Name)
}

func TestSelectionAddRejectsMismatchedType(t *testing.T) {
	sel := NewSelection()

	err := sel.Add(AxisCasing, SeparatorRule{Meta{"Space", ""}, " "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a CasingRule")
}

func TestSelectionSetRules(t *testing.T) {
	sel := NewSelection()

	require.NoError(t, sel.SetRules(AxisCasing, []CasingRule{{Meta{"Upper", ""}}}))
	active, ok := sel.Casing()
	require.True(t, ok)
	assert.Equal(t, "Upper", active.Name)

	err := sel.SetRules(AxisCasing, []SeparatorRule{})
	require.Error(t, err)
}

func TestSelectionSummary(t *testing.T) {
	sel := NewSelection()
	summary := sel.Summary()

	assert.Len(t, summary, 4)
	assert.Equal(t, "Empty", summary["Separator"])
	assert.Equal(t, "No Change", summary["Casing"])
	assert.Equal(t, "Parentheses", summary["ItemFormatting"])
	assert.Equal(t, "Numeric", summary["Enumeration"])
}

func TestSelectionSummaryEmptiedAxis(t *testing.T) {
	sel := NewSelection()
	require.NoError(t, sel.SetRules(AxisEnumeration, []EnumerationRule{}))

	summary := sel.Summary()
	assert.Len(t, summary, 4)
	assert.Equal(t, NoRule, summary["Enumeration"])

	_, ok := sel.Enumeration()
	assert.False(t, ok)
}
