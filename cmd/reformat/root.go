package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptlab/reformat/utils"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reformat",
		Short: "Reformat prompts and search for better-performing formats",
		Long: `reformat applies expert formatting rules (separators, casing, item
wrapping, enumeration) to prompts, and can search the space of rule
combinations for one that improves an LLM's response quality.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newFormatCmd())
	cmd.AddCommand(newImproveCmd())
	return cmd
}

// readInput resolves the prompt text for a subcommand: the joined positional
// arguments if present, otherwise stdin.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no input: pass the prompt as an argument or pipe it to stdin")
	}
	return text, nil
}

// writeOutput writes content to path, or stdout when path is empty.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func loggerFor(verbose bool) utils.Logger {
	if verbose {
		return utils.NewLogger(utils.LogLevelDebug)
	}
	return utils.NewLogger(utils.LogLevelWarn)
}
