package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

var chatJSON bool

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieves the most relevant document chunks and asks the configured
completion model for an answer grounded in them. The confidence score
reflects how well the retrieved context matched the question, not the
correctness of the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	result, err := generationService.Chat(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	return outputGeneration(cmd, result, chatJSON)
}

func outputGeneration(cmd *cobra.Command, result *domain.GenerationResult, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	cmd.Println()
	if len(result.Sources) > 0 {
		cmd.Printf("Sources: %s\n", strings.Join(result.Sources, ", "))
	} else {
		cmd.Println("Sources: none (answer is not grounded in your documents)")
	}
	cmd.Printf("Confidence: %d%%\n", result.Confidence)
	return nil
}
