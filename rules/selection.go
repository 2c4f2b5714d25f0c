package rules

import "fmt"

// NoRule is reported in a summary for an axis whose rule list was emptied.
const NoRule = "None"

// Selection holds the rule lists for all four axes. The first rule of each
// list is the active choice; Add prepends, making the new rule active.
// A Selection is owned by a single Reformatter or search run, never shared.
type Selection struct {
	separators []SeparatorRule
	casings    []CasingRule
	items      []ItemFormattingRule
	enums      []EnumerationRule
}

// NewSelection builds a selection over the full default catalogs.
func NewSelection() *Selection {
	return &Selection{
		separators: DefaultSeparatorRules(),
		casings:    DefaultCasingRules(),
		items:      DefaultItemFormattingRules(),
		enums:      DefaultEnumerationRules(),
	}
}

// NewSelectionFromRules builds a selection from explicit rule lists. Empty
// lists are allowed; the corresponding axis then reports NoRule and the
// neutral behavior is used during rendering.
func NewSelectionFromRules(separators []SeparatorRule, casings []CasingRule, items []ItemFormattingRule, enums []EnumerationRule) *Selection {
	return &Selection{
		separators: separators,
		casings:    casings,
		items:      items,
		enums:      enums,
	}
}

// Neutral returns the selection used for baseline renderings: colon-space
// label joins, unchanged casing, bare numeric enumerators.
func Neutral() *Selection {
	return NewSelectionFromRules(
		[]SeparatorRule{{Meta{"Single Colon", "Single colon"}, ": "}},
		[]CasingRule{{Meta{"No Change", "Keep original casing"}}},
		[]ItemFormattingRule{{Meta{"Plain", "No wrapping"}, "%s"}},
		[]EnumerationRule{{Meta{"Numeric", "Use numeric enumeration"}, StyleNumeric}},
	)
}

// Add installs rule as the new active rule for the axis. The rule's concrete
// type must match the axis.
func (s *Selection) Add(axis Axis, rule Rule) error {
	switch axis {
	case AxisSeparator:
		r, ok := rule.(SeparatorRule)
		if !ok {
			return fmt.Errorf("rule %q is not a SeparatorRule", rule.RuleMeta().Name)
		}
		s.separators = append([]SeparatorRule{r}, s.separators...)
	case AxisCasing:
		r, ok := rule.(CasingRule)
		if !ok {
			return fmt.Errorf("rule %q is not a CasingRule", rule.RuleMeta().Name)
		}
		s.casings = append([]CasingRule{r}, s.casings...)
	case AxisItemFormatting:
		r, ok := rule.(ItemFormattingRule)
		if !ok {
			return fmt.Errorf("rule %q is not an ItemFormattingRule", rule.RuleMeta().Name)
		}
		s.items = append([]ItemFormattingRule{r}, s.items...)
	case AxisEnumeration:
		r, ok := rule.(EnumerationRule)
		if !ok {
			return fmt.Errorf("rule %q is not an EnumerationRule", rule.RuleMeta().Name)
		}
		s.enums = append([]EnumerationRule{r}, s.enums...)
	default:
		return &UnknownAxisError{Name: axis.String()}
	}
	return nil
}

// SetRules replaces an axis's rule list entirely. An empty list is legal and
// leaves the axis with no active rule.
func (s *Selection) SetRules(axis Axis, list any) error {
	switch axis {
	case AxisSeparator:
		r, ok := list.([]SeparatorRule)
		if !ok {
			return fmt.Errorf("expected []SeparatorRule, got %T", list)
		}
		s.separators = r
	case AxisCasing:
		r, ok := list.([]CasingRule)
		if !ok {
			return fmt.Errorf("expected []CasingRule, got %T", list)
		}
		s.casings = r
	case AxisItemFormatting:
		r, ok := list.([]ItemFormattingRule)
		if !ok {
			return fmt.Errorf("expected []ItemFormattingRule, got %T", list)
		}
		s.items = r
	case AxisEnumeration:
		r, ok := list.([]EnumerationRule)
		if !ok {
			return fmt.Errorf("expected []EnumerationRule, got %T", list)
		}
		s.enums = r
	default:
		return &UnknownAxisError{Name: axis.String()}
	}
	return nil
}

// Separator returns the active separator rule, false if the list is empty.
func (s *Selection) Separator() (SeparatorRule, bool) {
	if len(s.separators) == 0 {
		return SeparatorRule{}, false
	}
	return s.separators[0], true
}

// Casing returns the active casing rule, false if the list is empty.
func (s *Selection) Casing() (CasingRule, bool) {
	if len(s.casings) == 0 {
		return CasingRule{}, false
	}
	return s.casings[0], true
}

// ItemFormatting returns the active item rule, false if the list is empty.
func (s *Selection) ItemFormatting() (ItemFormattingRule, bool) {
	if len(s.items) == 0 {
		return ItemFormattingRule{}, false
	}
	return s.items[0], true
}

// Enumeration returns the active enumeration rule, false if the list is empty.
func (s *Selection) Enumeration() (EnumerationRule, bool) {
	if len(s.enums) == 0 {
		return EnumerationRule{}, false
	}
	return s.enums[0], true
}

// Summary reports the active rule name per axis. Always four entries; an
// emptied axis reports NoRule.
func (s *Selection) Summary() map[string]string {
	summary := make(map[string]string, 4)
	if r, ok := s.Separator(); ok {
		summary[AxisSeparator.String()] = r.Name
	} else {
		summary[AxisSeparator.String()] = NoRule
	}
	if r, ok := s.Casing(); ok {
		summary[AxisCasing.String()] = r.Name
	} else {
		summary[AxisCasing.String()] = NoRule
	}
	if r, ok := s.ItemFormatting(); ok {
		summary[AxisItemFormatting.String()] = r.Name
	} else {
		summary[AxisItemFormatting.String()] = NoRule
	}
	if r, ok := s.Enumeration(); ok {
		summary[AxisEnumeration.String()] = r.Name
	} else {
		summary[AxisEnumeration.String()] = NoRule
	}
	return summary
}
