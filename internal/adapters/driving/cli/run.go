package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

var runLang string

var runCmd = &cobra.Command{
	Use:   "run [script-file]",
	Short: "Run a test script in the sandbox",
	Long: `Executes a script in an isolated process with a scrubbed environment,
an ephemeral working directory and a hard timeout. The exit code of the
command mirrors the script outcome.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runLang, "lang", "l", "", "script language (python, shell); detected when omitted")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if executionService == nil {
		return errors.New("execution service not configured")
	}

	script, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	result, err := executionService.Run(cmd.Context(), string(script), domain.ScriptLanguage(runLang))
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if result.Stdout != "" {
		cmd.Print(result.Stdout)
	}
	if result.Stderr != "" {
		cmd.PrintErr(result.Stderr)
	}

	cmd.Println()
	switch {
	case result.TimedOut:
		cmd.Printf("TIMEOUT after %s\n", result.Duration.Round(time.Millisecond))
	case result.Success:
		cmd.Printf("PASS in %s\n", result.Duration.Round(time.Millisecond))
	default:
		cmd.Printf("FAIL (exit code %d) in %s\n", result.ReturnCode, result.Duration.Round(time.Millisecond))
	}

	if !result.Success {
		return fmt.Errorf("script exited with code %d", result.ReturnCode)
	}
	return nil
}
