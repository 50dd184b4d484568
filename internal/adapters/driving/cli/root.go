// Package cli implements the cobra command tree, the driving adapter
// through which users reach the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	ingestService     driving.IngestService
	registryService   driving.RegistryService
	generationService driving.GenerationService
	executionService  driving.ExecutionService
	watchService      driving.WatchService
	statusService     driving.StatusService
)

// Services bundles the driving ports the commands need.
type Services struct {
	Ingest     driving.IngestService
	Registry   driving.RegistryService
	Generation driving.GenerationService
	Execution  driving.ExecutionService
	Watch      driving.WatchService
	Status     driving.StatusService
}

// SetServices wires the core services into the command tree.
func SetServices(s Services) {
	ingestService = s.Ingest
	registryService = s.Registry
	generationService = s.Generation
	executionService = s.Execution
	watchService = s.Watch
	statusService = s.Status
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "testcraft",
	Short: "RAG-assisted test case generation from project documentation",
	Long: `TestCraft ingests project documentation and source code into a local
vector index, answers questions about it, generates grounded test cases
and runs the generated scripts in a sandbox.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
