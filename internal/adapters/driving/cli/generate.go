package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	generateJSON   bool
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate [description]",
	Short: "Generate a test case from a feature description",
	Long: `Generates a structured test case (title, prerequisites, steps, expected
results, edge cases and a runnable script) grounded in the ingested
documentation and code.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output as JSON")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the test case to a file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	result, err := generationService.GenerateTestCase(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(result.Answer+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", generateOutput, err)
		}
		cmd.Printf("Test case written to %s (confidence %d%%)\n", generateOutput, result.Confidence)
		return nil
	}

	return outputGeneration(cmd, result, generateJSON)
}
