// Package rules defines the vocabulary of prompt formatting choices: four
// orthogonal axes (section separator, label casing, item wrapping, and
// enumeration style), each with a catalog of named rules. Rules are closed
// value types selected by name; two rules on the same axis may share a value.
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Axis identifies one independent formatting dimension.
type Axis int

const (
	AxisSeparator Axis = iota
	AxisCasing
	AxisItemFormatting
	AxisEnumeration
)

func (a Axis) String() string {
	switch a {
	case AxisSeparator:
		return "Separator"
	case AxisCasing:
		return "Casing"
	case AxisItemFormatting:
		return "ItemFormatting"
	case AxisEnumeration:
		return "Enumeration"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Axes lists the four axes in catalog order.
func Axes() []Axis {
	return []Axis{AxisSeparator, AxisCasing, AxisItemFormatting, AxisEnumeration}
}

// ParseAxis resolves an axis by its string name.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "Separator":
		return AxisSeparator, nil
	case "Casing":
		return AxisCasing, nil
	case "ItemFormatting":
		return AxisItemFormatting, nil
	case "Enumeration":
		return AxisEnumeration, nil
	default:
		return 0, &UnknownAxisError{Name: name}
	}
}

// UnknownAxisError reports an axis name outside the four recognized values.
type UnknownAxisError struct {
	Name string
}

func (e *UnknownAxisError) Error() string {
	return fmt.Sprintf("unknown axis: %q (valid axes: Separator, Casing, ItemFormatting, Enumeration)", e.Name)
}

// Meta carries the identifying metadata shared by every rule. Name is unique
// within an axis; Description is human-readable.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RuleMeta returns the rule's metadata. The embedded field is named Meta,
// which would shadow a promoted method of the same name, so the accessor
// carries a distinct name.
func (m Meta) RuleMeta() Meta { return m }

// Rule is one concrete formatting choice. Apply is total: it never fails on
// well-formed text and returns the input unchanged when the rule does not
// recognize it.
type Rule interface {
	RuleMeta() Meta
	Apply(text string) string
}

var (
	_ Rule = SeparatorRule{}
	_ Rule = CasingRule{}
	_ Rule = ItemFormattingRule{}
	_ Rule = EnumerationRule{}
)

// SeparatorRule rejoins newline-delimited sections of text with its
// separator string, trimming each section.
type SeparatorRule struct {
	Meta
	Separator string `json:"separator"`
}

func (r SeparatorRule) Apply(text string) string {
	sections := strings.Split(text, "\n")
	for i, section := range sections {
		sections[i] = strings.TrimSpace(section)
	}
	return strings.Join(sections, r.Separator)
}

// DefaultSeparatorRules returns the separator catalog. A fresh slice is
// constructed on every call so callers can mutate their copy freely.
func DefaultSeparatorRules() []SeparatorRule {
	return []SeparatorRule{
		{Meta{"Empty", "No separator"}, ""},
		{Meta{"Space", "Single space"}, " "},
		{Meta{"Double Space", "Double space"}, "  "},
		{Meta{"Newline", "Single newline"}, "\n"},
		{Meta{"Double Newline", "Double newline"}, "\n\n"},
		{Meta{"Double Dash", "Double dash"}, " -- "},
		{Meta{"Semicolon", "Semicolon"}, " ; "},
		{Meta{"Pipe", "Double pipe"}, " || "},
		{Meta{"Sep", "Special separator token"}, " <sep> "},
		{Meta{"Comma", "Comma"}, ", "},
		{Meta{"Period", "Period"}, ". "},
		{Meta{"Double Colon", "Double colon"}, ":: "},
		{Meta{"Single Colon", "Single colon"}, ": "},
		{Meta{"Tab", "Tab"}, "\t"},
		{Meta{"Newline Tab", "Newline with tab"}, "\n\t"},
		{Meta{"Triple Period", "Triple period"}, "..."},
	}
}

// CasingRule transforms the casing of the full string.
type CasingRule struct {
	Meta
}

func (r CasingRule) Apply(text string) string {
	switch r.Name {
	case "Title":
		return titleCase(text)
	case "Lower":
		return strings.ToLower(text)
	case "Upper":
		return strings.ToUpper(text)
	default:
		return text
	}
}

// titleCase upper-cases the first letter of every whitespace-delimited token
// and lower-cases the rest. Idempotent on already-title-cased ASCII.
func titleCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	atStart := true
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			atStart = true
			b.WriteRune(r)
		case atStart:
			atStart = false
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// DefaultCasingRules returns the casing catalog.
func DefaultCasingRules() []CasingRule {
	return []CasingRule{
		{Meta{"No Change", "Keep original casing"}},
		{Meta{"Title", "Use title case"}},
		{Meta{"Lower", "Use lowercase"}},
		{Meta{"Upper", "Use uppercase"}},
	}
}

// ItemFormattingRule wraps a single enumerator token in decoration, e.g.
// "(1)" or "[A]". Format holds one %s placeholder. The rule is applied only
// to enumerator tokens produced during template rendering, never scanned
// over free text: digits inside user content are not touched.
type ItemFormattingRule struct {
	Meta
	Format string `json:"format"`
}

func (r ItemFormattingRule) Apply(text string) string {
	if !strings.Contains(r.Format, "%s") {
		return text
	}
	return fmt.Sprintf(r.Format, text)
}

// DefaultItemFormattingRules returns the item wrapping catalog.
func DefaultItemFormattingRules() []ItemFormattingRule {
	return []ItemFormattingRule{
		{Meta{"Parentheses", "Use parentheses"}, "(%s)"},
		{Meta{"Dot", "Use dot suffix"}, "%s."},
		{Meta{"Paren", "Use right parenthesis"}, "%s)"},
		{Meta{"Underscore", "Use underscore suffix"}, "%s_"},
		{Meta{"Brackets", "Use square brackets"}, "[%s]"},
		{Meta{"Angle", "Use angle brackets"}, "<%s>"},
	}
}

// Enumeration styles.
const (
	StyleNumeric    = "numeric"
	StyleRomanUpper = "roman_upper"
	StyleRomanLower = "roman_lower"
	StyleAlphaUpper = "alpha_upper"
	StyleAlphaLower = "alpha_lower"
	StyleFraction   = "fraction"
)

// EnumerationRule maps a 1-based index to an enumerator token. Roman and
// alphabetic styles cover indices 1-10 and fall back to the numeric form
// beyond that; the fraction style offsets into the unicode fraction block
// and is decorative, with no printability guarantee across ranges.
type EnumerationRule struct {
	Meta
	Style string `json:"style"`
}

var romanNumerals = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// Token formats a 1-based index according to the rule's style.
func (r EnumerationRule) Token(index int) string {
	numeric := strconv.Itoa(index)
	if index < 1 {
		return numeric
	}
	switch r.Style {
	case StyleRomanUpper, StyleRomanLower:
		if index > len(romanNumerals) {
			return numeric
		}
		token := romanNumerals[index-1]
		if r.Style == StyleRomanLower {
			return strings.ToLower(token)
		}
		return token
	case StyleAlphaUpper:
		if index > 10 {
			return numeric
		}
		return string(rune('A' + index - 1))
	case StyleAlphaLower:
		if index > 10 {
			return numeric
		}
		return string(rune('a' + index - 1))
	case StyleFraction:
		return string(rune(0x215F + index))
	default:
		return numeric
	}
}

// Apply formats text as an enumerator token when it parses as a 1-based
// index, and returns it unchanged otherwise.
func (r EnumerationRule) Apply(text string) string {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return text
	}
	return r.Token(index)
}

// DefaultEnumerationRules returns the enumeration catalog.
func DefaultEnumerationRules() []EnumerationRule {
	return []EnumerationRule{
		{Meta{"Numeric", "Use numeric enumeration"}, StyleNumeric},
		{Meta{"Roman Upper", "Use uppercase roman numerals"}, StyleRomanUpper},
		{Meta{"Roman Lower", "Use lowercase roman numerals"}, StyleRomanLower},
		{Meta{"Alpha Upper", "Use uppercase letters"}, StyleAlphaUpper},
		{Meta{"Alpha Lower", "Use lowercase letters"}, StyleAlphaLower},
		{Meta{"Fraction", "Use unicode fraction code points"}, StyleFraction},
	}
}
