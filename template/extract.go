package template

import "strings"

// Extract is the approximate inverse of Render: it splits text on
// SectionSeparator, matches each chunk against a declared field's label
// prefix, and reconstructs field values. Example blocks render as separate
// sections, so an unlabeled chunk containing an input/output pair is folded
// into the examples field. Other unmatched chunks are silently dropped.
// Extraction is lossy: it assumes the canonical colon-space connective was
// used and does not invert arbitrary rule selections. Callers must not
// depend on it succeeding.
func (t *Template) Extract(text string) Values {
	values := make(Values)
	sections := strings.Split(text, SectionSeparator)

	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		matched := false
		for _, f := range t.Fields {
			body, ok := stripLabel(section, f.Name)
			if !ok {
				continue
			}
			matched = true
			switch f.Kind {
			case KindExamples:
				if examples := parseExamples(body); len(examples) > 0 {
					appendExamples(values, f.Name, examples)
				}
			case KindOptions:
				if options := parseOptions(body); len(options) > 0 {
					values[f.Name] = options
				}
			default:
				values[f.Name] = body
			}
			break
		}
		if !matched {
			if f, ok := t.exampleField(); ok {
				if examples := parseExamples(section); len(examples) > 0 {
					appendExamples(values, f.Name, examples)
				}
			}
		}
	}

	return values
}

func (t *Template) exampleField() (Field, bool) {
	for _, f := range t.Fields {
		if f.Kind == KindExamples {
			return f, true
		}
	}
	return Field{}, false
}

func appendExamples(values Values, name string, examples []Example) {
	existing, _ := values[name].([]Example)
	values[name] = append(existing, examples...)
}

// stripLabel removes a leading field label joined by the canonical ":" or a
// bare newline, returning the remaining body.
func stripLabel(section, label string) (string, bool) {
	if rest, ok := strings.CutPrefix(section, label+":"); ok {
		return strings.TrimSpace(rest), true
	}
	if rest, ok := strings.CutPrefix(section, label+"\n"); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func parseExamples(body string) []Example {
	var examples []Example
	for _, block := range strings.Split(body, SectionSeparator) {
		inputIdx := strings.Index(block, "Input:")
		outputIdx := strings.Index(block, "Output:")
		if inputIdx == -1 || outputIdx == -1 || outputIdx < inputIdx {
			continue
		}
		input := strings.TrimSpace(block[inputIdx+len("Input:") : outputIdx])
		output := strings.TrimSpace(block[outputIdx+len("Output:"):])
		examples = append(examples, Example{Input: input, Output: output})
	}
	return examples
}

func parseOptions(body string) []string {
	var options []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Drop a leading enumerator token ("1.", "(A)", "ii)") when present.
		if token, rest, ok := strings.Cut(line, " "); ok && rest != "" && looksLikeEnumerator(token) {
			options = append(options, strings.TrimSpace(rest))
		} else {
			options = append(options, line)
		}
	}
	return options
}

func looksLikeEnumerator(token string) bool {
	core := strings.Trim(token, "()[]<>._")
	if core == "" || len(core) > 4 {
		return false
	}
	if core == token {
		// No decoration at all; a bare word is content, not an enumerator.
		return false
	}
	for _, r := range core {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
