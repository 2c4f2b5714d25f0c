package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Profile bundles per-axis rule lists tuned for one target model. The first
// rule of each list is the expert choice for that model.
type Profile struct {
	Name       string
	Separators []SeparatorRule
	Casings    []CasingRule
	Items      []ItemFormattingRule
	Enums      []EnumerationRule
}

// Selection builds a fresh Selection from the profile's rule lists.
func (p Profile) Selection() *Selection {
	return NewSelectionFromRules(p.Separators, p.Casings, p.Items, p.Enums)
}

// UnknownProfileError reports a rule-profile name with no registered rules.
type UnknownProfileError struct {
	Name  string
	Known []string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown rule profile: %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

func defaultProfile(name string) Profile {
	return Profile{
		Name:       name,
		Separators: DefaultSeparatorRules(),
		Casings:    DefaultCasingRules(),
		Items:      DefaultItemFormattingRules(),
		Enums:      DefaultEnumerationRules(),
	}
}

// profiles constructs the built-in profile table fresh on each call so no
// caller mutation leaks into another lookup.
func profiles() map[string]Profile {
	llama8b := defaultProfile("llama-3.1-8b-instant")
	llama8b.Casings = []CasingRule{{Meta{"Upper", "Use uppercase"}}}

	return map[string]Profile{
		"general":                 defaultProfile("general"),
		"gpt-4o":                  defaultProfile("gpt-4o"),
		"gpt-4o-mini":             defaultProfile("gpt-4o-mini"),
		"llama-3.1-70b-versatile": defaultProfile("llama-3.1-70b-versatile"),
		"llama-3.1-8b-instant":    llama8b,
		"mixtral-8x7b-32768":      defaultProfile("mixtral-8x7b-32768"),
		"gemma2-9b-it":            defaultProfile("gemma2-9b-it"),
	}
}

// ProfileNames returns the sorted names of the built-in profiles.
func ProfileNames() []string {
	table := profiles()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfile resolves a rule profile by target-model name.
func GetProfile(name string) (Profile, error) {
	table := profiles()
	profile, ok := table[name]
	if !ok {
		return Profile{}, &UnknownProfileError{Name: name, Known: ProfileNames()}
	}
	return profile, nil
}
