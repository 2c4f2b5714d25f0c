package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxis(t *testing.T) {
	for _, axis := range Axes() {
		parsed, err := ParseAxis(axis.String())
		require.NoError(t, err)
		assert.Equal(t, axis, parsed)
	}

	_, err := ParseAxis("Spacing")
	require.Error(t, err)
	var unknownErr *UnknownAxisError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Spacing", unknownErr.Name)
}

func TestRuleInterface(t *testing.T) {
	// Every catalog type must be usable through the Rule interface, with
	// metadata reachable despite the embedded field sharing the Meta name.
	ruleSet := []Rule{
		DefaultSeparatorRules()[0],
		DefaultCasingRules()[0],
		DefaultItemFormattingRules()[0],
		DefaultEnumerationRules()[0],
	}

	names := make([]string, 0, len(ruleSet))
	for _, rule := range ruleSet {
		meta := rule.RuleMeta()
		assert.NotEmpty(t, meta.Name)
		assert.NotEmpty(t, meta.Description)
		names = append(names, meta.Name)
	}
	assert.Equal(t, []string{"Empty", "No Change", "Parentheses", "Numeric"}, names)
}

func TestSeparatorRuleApply(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		input    string
		expected string
	}{
		{"space joins sections", "Space", "Task: add\nInput: 2+2", "Task: add Input: 2+2"},
		{"sections are trimmed", "Comma", "one  \n  two", "one, two"},
		{"empty separator concatenates", "Empty", "a\nb", "ab"},
		{"single section unchanged", "Pipe", "no newlines here", "no newlines here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := findSeparator(t, tt.rule)
			assert.Equal(t, tt.expected, rule.Apply(tt.input))
		})
	}
}

func TestCasingRuleApply(t *testing.T) {
	input := "the QUICK brown Fox"

	tests := []struct {
		rule     string
		expected string
	}{
		{"No Change", "the QUICK brown Fox"},
		{"Lower", "the quick brown fox"},
		{"Upper", "THE QUICK BROWN FOX"},
		{"Title", "The Quick Brown Fox"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			rule := findCasing(t, tt.rule)
			result := rule.Apply(input)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, result, rule.Apply(result), "second application must be a no-op")
		})
	}
}

func TestTitleCasePreservesWhitespace(t *testing.T) {
	rule := findCasing(t, "Title")
	assert.Equal(t, "Hello\tWorld\nAgain", rule.Apply("hello\tworld\nagain"))
}

func TestItemFormattingRuleApply(t *testing.T) {
	tests := []struct {
		rule     string
		expected string
	}{
		{"Parentheses", "(3)"},
		{"Dot", "3."},
		{"Paren", "3)"},
		{"Underscore", "3_"},
		{"Brackets", "[3]"},
		{"Angle", "<3>"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			rule := findItem(t, tt.rule)
			assert.Equal(t, tt.expected, rule.Apply("3"))
		})
	}

	t.Run("format without placeholder is inert", func(t *testing.T) {
		rule := ItemFormattingRule{Meta{"Broken", ""}, "!!"}
		assert.Equal(t, "3", rule.Apply("3"))
	})
}

func TestEnumerationToken(t *testing.T) {
	tests := []struct {
		style    string
		index    int
		expected string
	}{
		{StyleNumeric, 1, "1"},
		{StyleNumeric, 42, "42"},
		{StyleRomanUpper, 1, "I"},
		{StyleRomanUpper, 4, "IV"},
		{StyleRomanUpper, 9, "IX"},
		{StyleRomanUpper, 10, "X"},
		{StyleRomanUpper, 11, "11"},
		{StyleRomanLower, 3, "iii"},
		{StyleAlphaUpper, 1, "A"},
		{StyleAlphaUpper, 10, "J"},
		{StyleAlphaUpper, 11, "11"},
		{StyleAlphaLower, 2, "b"},
		{StyleFraction, 1, string(rune(0x2160))},
	}

	for _, tt := range tests {
		t.Run(tt.style+"/"+tt.expected, func(t *testing.T) {
			rule := EnumerationRule{Meta{tt.style, ""}, tt.style}
			assert.Equal(t, tt.expected, rule.Token(tt.index))
		})
	}

	t.Run("index below one stays numeric", func(t *testing.T) {
		rule := EnumerationRule{Meta{"Roman Upper", ""}, StyleRomanUpper}
		assert.Equal(t, "0", rule.Token(0))
		assert.Equal(t, "-1", rule.Token(-1))
	})
}

func TestEnumerationApply(t *testing.T) {
	rule := EnumerationRule{Meta{"Roman Upper", ""}, StyleRomanUpper}

	assert.Equal(t, "IV", rule.Apply("4"))
	assert.Equal(t, "IV", rule.Apply(" 4 "))
	assert.Equal(t, "not a number", rule.Apply("not a number"))
}

func TestDefaultCatalogsAreFresh(t *testing.T) {
	separators := DefaultSeparatorRules()
	separators[0].Separator = "MUTATED"
	assert.Equal(t, "", DefaultSeparatorRules()[0].Separator)

	items := DefaultItemFormattingRules()
	items[0].Format = "MUTATED"
	assert.Equal(t, "(%s)", DefaultItemFormattingRules()[0].Format)
}

func findSeparator(t *testing.T, name string) SeparatorRule {
	t.Helper()
	for _, rule := range DefaultSeparatorRules() {
		if rule.Name == name {
			return rule
		}
	}
	t.Fatalf("separator rule %q not in catalog", name)
	return SeparatorRule{}
}

func findCasing(t *testing.T, name string) CasingRule {
	t.Helper()
	for _, rule := range DefaultCasingRules() {
		if rule.Name == name {
			return rule
		}
	}
	t.Fatalf("casing rule %q not in catalog", name)
	return CasingRule{}
}

func findItem(t *testing.T, name string) ItemFormattingRule {
	t.Helper()
	for _, rule := range DefaultItemFormattingRules() {
		if rule.Name == name {
			return rule
		}
	}
	t.Fatalf("item formatting rule %q not in catalog", name)
	return ItemFormattingRule{}
}
