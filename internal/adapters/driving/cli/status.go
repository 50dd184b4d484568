package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the configured AI providers are reachable",
	Long: `Probes the embedding and LLM providers with the current configuration.
A failing probe usually means the provider is not running, the base URL
is wrong or the API key is invalid.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	reports := statusService.Check(cmd.Context())

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
			cmd.Printf("%-10s %s: UNREACHABLE (%v)\n", r.Name, r.Model, r.Err)
			continue
		}
		cmd.Printf("%-10s %s: OK\n", r.Name, r.Model)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d providers unreachable", failed, len(reports))
	}
	return nil
}
