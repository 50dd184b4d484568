package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Ingest documents into the index",
	Long: `Reads each file, chunks and embeds its text and adds it to the local
vector index. Re-uploading a file replaces its previous version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	var failed int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			cmd.Printf("  %s: %v\n", path, err)
			failed++
			continue
		}

		doc, err := ingestService.Upload(ctx, filepath.Base(path), string(data))
		if err != nil {
			cmd.Printf("  %s: %v\n", path, err)
			failed++
			continue
		}

		cmd.Printf("  %s -> %s (%s, %d chunks)\n", path, doc.ID, doc.Format, len(doc.ChunkIDs))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	cmd.Printf("Uploaded %d document(s)\n", len(args))
	return nil
}

// uploadStateLabel renders a document state for listings.
func uploadStateLabel(doc domain.Document) string {
	if doc.State == domain.DocumentFailed && doc.FailureReason != "" {
		return fmt.Sprintf("%s (%s)", doc.State, doc.FailureReason)
	}
	return doc.State.String()
}
