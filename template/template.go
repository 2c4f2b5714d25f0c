// Package template models structured prompts as named, ordered fields and
// renders them under a rule selection. Rendering is deterministic; the
// inverse Extract is a best-effort heuristic and is not guaranteed to
// round-trip rendered text.
package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/promptlab/reformat/rules"
)

// SectionSeparator joins top-level sections. It is the template's structural
// contract, not an axis-controlled variable.
const SectionSeparator = "\n\n"

// Kind distinguishes plain text fields from typed list fields.
type Kind int

const (
	KindText Kind = iota
	KindExamples
	KindOptions
)

// Field is one named slot in a template.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Example is one input/output demonstration pair.
type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Values maps field names to their content: string for text fields,
// []Example for example fields, []string for option fields.
type Values map[string]any

// MissingFieldError lists every required field absent from a render call.
type MissingFieldError struct {
	Template string
	Fields   []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template %q: missing required fields: %s", e.Template, strings.Join(e.Fields, ", "))
}

// UnknownTemplateError reports a template name absent from the registry.
type UnknownTemplateError struct {
	Name  string
	Known []string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template: %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Template is a named, ordered list of fields.
type Template struct {
	Name        string
	Description string
	Fields      []Field
}

// RequiredFields returns the names of all required fields in declared order.
func (t *Template) RequiredFields() []string {
	var required []string
	for _, f := range t.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return required
}

// FirstRequired returns the first required field, or false if none exists.
func (t *Template) FirstRequired() (Field, bool) {
	for _, f := range t.Fields {
		if f.Required {
			return f, true
		}
	}
	return Field{}, false
}

// Render composes the field values into a single prompt under the active
// rules of sel. A nil sel renders the neutral baseline. The join contract:
// each present field renders as label + connective + value, where the label
// is cased by the active casing rule and the connective is the active
// separator rule's string; example entries render as three-line blocks with
// an enumerated label; option entries render one enumerated line each;
// sections are joined by SectionSeparator.
//
// Render fails with *MissingFieldError listing every absent required field
// and produces no partial output in that case.
func (t *Template) Render(values Values, sel *rules.Selection) (string, error) {
	var missing []string
	for _, f := range t.Fields {
		if f.Required {
			if _, ok := values[f.Name]; !ok {
				missing = append(missing, f.Name)
			}
		}
	}
	if len(missing) > 0 {
		return "", &MissingFieldError{Template: t.Name, Fields: missing}
	}

	if sel == nil {
		sel = rules.Neutral()
	}
	connective := "\n"
	if r, ok := sel.Separator(); ok {
		connective = r.Separator
	}
	caseLabel := func(label string) string {
		if r, ok := sel.Casing(); ok {
			return r.Apply(label)
		}
		return label
	}
	enumToken := func(i int) string {
		token := fmt.Sprintf("%d", i)
		if r, ok := sel.Enumeration(); ok {
			token = r.Token(i)
		}
		if r, ok := sel.ItemFormatting(); ok {
			token = r.Apply(token)
		}
		return token
	}

	var sections []string
	for _, f := range t.Fields {
		value, ok := values[f.Name]
		if !ok {
			continue
		}
		label := caseLabel(f.Name)

		switch f.Kind {
		case KindExamples:
			examples, ok := value.([]Example)
			if !ok {
				sections = append(sections, label+connective+fmt.Sprint(value))
				continue
			}
			if len(examples) == 0 {
				continue
			}
			blocks := make([]string, 0, len(examples))
			for i, ex := range examples {
				block := fmt.Sprintf("%s %s\n%s: %s\n%s: %s",
					caseLabel("Example"), enumToken(i+1),
					caseLabel("Input"), ex.Input,
					caseLabel("Output"), ex.Output,
				)
				blocks = append(blocks, block)
			}
			sections = append(sections, label+connective+strings.Join(blocks, SectionSeparator))
		case KindOptions:
			options, ok := value.([]string)
			if !ok {
				sections = append(sections, label+connective+fmt.Sprint(value))
				continue
			}
			if len(options) == 0 {
				continue
			}
			lines := make([]string, 0, len(options))
			for i, opt := range options {
				lines = append(lines, enumToken(i+1)+" "+opt)
			}
			sections = append(sections, label+connective+strings.Join(lines, "\n"))
		default:
			sections = append(sections, label+connective+fmt.Sprint(value))
		}
	}

	return strings.Join(sections, SectionSeparator), nil
}

// builtins constructs the template registry fresh on each call.
func builtins() map[string]*Template {
	return map[string]*Template{
		"general": {
			Name:        "general",
			Description: "Few-shot learning with a task description and input/output examples",
			Fields: []Field{
				{Name: "Task", Kind: KindText, Required: true},
				{Name: "Examples", Kind: KindExamples},
				{Name: "Input", Kind: KindText, Required: true},
			},
		},
		"multiple_choice": {
			Name:        "multiple_choice",
			Description: "Multiple choice questions with examples",
			Fields: []Field{
				{Name: "Task", Kind: KindText, Required: true},
				{Name: "Examples", Kind: KindExamples},
				{Name: "Question", Kind: KindText, Required: true},
				{Name: "Options", Kind: KindOptions, Required: true},
			},
		},
	}
}

// Names returns the sorted names of the built-in templates.
func Names() []string {
	registry := builtins()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get resolves a built-in template by name.
func Get(name string) (*Template, error) {
	registry := builtins()
	t, ok := registry[name]
	if !ok {
		return nil, &UnknownTemplateError{Name: name, Known: Names()}
	}
	return t, nil
}
