package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/promptlab/reformat/config"
	"github.com/promptlab/reformat/improver"
	"github.com/promptlab/reformat/llm"
	"github.com/promptlab/reformat/providers"
	"github.com/promptlab/reformat/template"
	"github.com/promptlab/reformat/utils"
)

func newImproveCmd() *cobra.Command {
	var (
		templateName string
		provider     string
		model        string
		apiKey       string
		iterations   int
		candidates   int
		outputPath   string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "improve [prompt]",
		Short: "Search formatting rule combinations for a better response",
		Long: `Improve runs a randomized search over formatting rule combinations,
scoring each candidate's response against the unformatted baseline with
a judge model, and prints the full search result as JSON.

Provider credentials come from <PROVIDER>_API_KEY environment variables
or the --api-key flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if provider != "" {
				cfg.Provider = provider
				cfg.JudgeProvider = provider
			}
			if model != "" {
				cfg.Model = model
				cfg.JudgeModel = model
			}
			if apiKey != "" {
				cfg.APIKeys[cfg.Provider] = apiKey
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = iterations
			}
			if cmd.Flags().Changed("candidates") {
				cfg.Candidates = candidates
			}
			if verbose {
				cfg.LogLevel = utils.LogLevelDebug
			}

			tmpl, err := template.Get(templateName)
			if err != nil {
				return err
			}

			logger := utils.NewLogger(cfg.LogLevel)
			registry := providers.NewRegistry()
			target, err := llm.NewClient(cfg, logger, registry)
			if err != nil {
				return err
			}
			judge, err := llm.NewJudgeClient(cfg, logger, registry)
			if err != nil {
				return err
			}

			im := improver.New(target, judge,
				improver.WithTemplate(tmpl),
				improver.WithIterations(cfg.Iterations),
				improver.WithCandidates(cfg.Candidates),
				improver.WithLogger(logger),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, err := im.Improve(ctx, text)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			return writeOutput(outputPath, string(data))
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "general", "prompt template name")
	cmd.Flags().StringVar(&provider, "provider", "", "override the configured provider for target and judge")
	cmd.Flags().StringVar(&model, "model", "", "override the configured model for target and judge")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the provider")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", improver.DefaultIterations, "search iterations")
	cmd.Flags().IntVarP(&candidates, "candidates", "c", improver.DefaultCandidates, "candidates sampled per iteration")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the JSON result to file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}
