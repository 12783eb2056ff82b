package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Parses each file, splits it into overlapping chunks, embeds
them and stores the vectors. Supported formats: txt, md, pdf, docx.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}

	for _, path := range args {
		result, err := ingestor.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		cmd.Printf("Ingested %s: %d blocks, %d chunks (document %s)\n",
			path, result.Blocks, result.ChunksStored, result.DocumentID)
	}
	return nil
}
