package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptlab/reformat/reformatter"
	"github.com/promptlab/reformat/rules"
	"github.com/promptlab/reformat/template"
)

func newFormatCmd() *cobra.Command {
	var (
		templateName string
		profileName  string
		outputPath   string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "format [prompt]",
		Short: "Apply a formatting profile to a prompt",
		Long: `Format renders a prompt through a template under a model-specific
formatting profile. The prompt is read from the positional argument or
from stdin. Known profiles: ` + profileList() + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}

			tmpl, err := template.Get(templateName)
			if err != nil {
				return err
			}
			profile, err := rules.GetProfile(profileName)
			if err != nil {
				return err
			}

			r := reformatter.New(
				reformatter.WithTemplate(tmpl),
				reformatter.WithSelection(profile.Selection()),
				reformatter.WithLogger(loggerFor(verbose)),
			)
			result, err := r.Format(text)
			if err != nil {
				return err
			}

			if verbose {
				fmt.Fprintf(os.Stderr, "Template: %s\nProfile:  %s\n", tmpl.Name, profile.Name)
				for _, axis := range rules.Axes() {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", axis, result.Summary[axis.String()])
				}
			}
			return writeOutput(outputPath, result.Formatted)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "general", "prompt template name")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "general", "formatting profile name")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write result to file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the template, profile and per-axis rules")
	return cmd
}

func profileList() string {
	names := rules.ProfileNames()
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
