// Package reformatter binds a rule selection to a prompt template and is the
// single entry point for rendering formatted prompts, used by both manual
// formatting and the search loop. It performs no network or disk I/O.
package reformatter

import (
	"errors"
	"fmt"

	"github.com/promptlab/reformat/rules"
	"github.com/promptlab/reformat/template"
	"github.com/promptlab/reformat/utils"
)

// Result pairs the canonical baseline rendering with the rendering produced
// under the live rule selection, plus the per-axis rule names used.
type Result struct {
	Original  string            `json:"original"`
	Formatted string            `json:"formatted"`
	Summary   map[string]string `json:"summary"`
}

// Reformatter owns one rule selection and one active template.
type Reformatter struct {
	selection *rules.Selection
	template  *template.Template
	logger    utils.Logger
}

// Option configures a Reformatter.
type Option func(*Reformatter)

// WithSelection installs an explicit rule selection.
func WithSelection(sel *rules.Selection) Option {
	return func(r *Reformatter) {
		r.selection = sel
	}
}

// WithTemplate installs an explicit template object.
func WithTemplate(t *template.Template) Option {
	return func(r *Reformatter) {
		r.template = t
	}
}

// WithLogger installs a logger.
func WithLogger(logger utils.Logger) Option {
	return func(r *Reformatter) {
		r.logger = logger
	}
}

// New creates a Reformatter with the default rule catalogs and the "general"
// template, then applies the given options.
func New(opts ...Option) *Reformatter {
	generalTemplate, _ := template.Get("general")
	r := &Reformatter{
		selection: rules.NewSelection(),
		template:  generalTemplate,
		logger:    utils.NewLogger(utils.LogLevelWarn),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Selection returns the live rule selection.
func (r *Reformatter) Selection() *rules.Selection {
	return r.selection
}

// Template returns the active template.
func (r *Reformatter) Template() *template.Template {
	return r.template
}

// SetTemplate switches the active template by registry name.
func (r *Reformatter) SetTemplate(name string) error {
	t, err := template.Get(name)
	if err != nil {
		return err
	}
	r.template = t
	return nil
}

// AddRule installs rule as the new active rule for the named axis.
func (r *Reformatter) AddRule(axisName string, rule rules.Rule) error {
	axis, err := rules.ParseAxis(axisName)
	if err != nil {
		return err
	}
	if err := r.selection.Add(axis, rule); err != nil {
		return err
	}
	r.logger.Debug("Installed rule", "axis", axisName, "rule", rule.RuleMeta().Name)
	return nil
}

// Format renders input under the live rule selection. Input is either a
// template.Values map or a raw prompt string. For structured values the
// baseline is the canonical neutral rendering; raw text is itself the
// baseline and is parsed back into field values best-effort first.
func (r *Reformatter) Format(input any) (*Result, error) {
	switch v := input.(type) {
	case template.Values:
		return r.FormatValues(v)
	case map[string]any:
		return r.FormatValues(template.Values(v))
	case string:
		return r.FormatText(v)
	default:
		return nil, fmt.Errorf("unsupported input type %T (want template.Values or string)", input)
	}
}

// FormatValues renders structured field values.
func (r *Reformatter) FormatValues(values template.Values) (*Result, error) {
	original, err := r.template.Render(values, nil)
	if err != nil {
		return nil, err
	}
	formatted, err := r.template.Render(values, r.selection)
	if err != nil {
		return nil, err
	}
	return &Result{
		Original:  original,
		Formatted: formatted,
		Summary:   r.selection.Summary(),
	}, nil
}

// FormatText renders a raw prompt string. The text is run through the
// template's best-effort extraction; when extraction yields nothing the
// whole text is placed in the first required field, and if structured
// rendering still cannot proceed the rules are applied to the raw text
// directly, so formatting always produces output.
func (r *Reformatter) FormatText(text string) (*Result, error) {
	values := r.template.Extract(text)
	if len(values) == 0 {
		if first, ok := r.template.FirstRequired(); ok {
			values = template.Values{first.Name: text}
		}
	}

	formatted, err := r.template.Render(values, r.selection)
	if err != nil {
		var missing *template.MissingFieldError
		if !errors.As(err, &missing) {
			return nil, err
		}
		r.logger.Debug("Extraction incomplete, applying rules to raw text", "missing", missing.Fields)
		formatted = r.applyToText(text)
	}

	return &Result{
		Original:  text,
		Formatted: formatted,
		Summary:   r.selection.Summary(),
	}, nil
}

// applyToText applies the active separator and casing rules directly to
// unstructured text. Item and enumeration rules are scoped to enumerator
// tokens produced during template rendering and are deliberately not applied
// here: rewriting digits found in free text corrupts user content.
func (r *Reformatter) applyToText(text string) string {
	if rule, ok := r.selection.Separator(); ok {
		text = rule.Apply(text)
	}
	if rule, ok := r.selection.Casing(); ok {
		text = rule.Apply(text)
	}
	return text
}
