package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
)

var (
	askDocument     string
	askConversation string
	askCitations    bool
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about ingested documents",
	Long: `Retrieves the most relevant chunks and composes a grounded
answer. Pass --conversation to continue a previous exchange.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocument, "document", "d", "", "restrict retrieval to one document id")
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "continue an existing conversation")
	askCmd.Flags().BoolVar(&askCitations, "citations", false, "include source citations")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}

	answer, err := assistant.Ask(ctx, driving.AskRequest{
		Query:            args[0],
		DocumentID:       askDocument,
		ConversationID:   askConversation,
		RequireCitations: askCitations,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if askCitations && len(answer.Citations) > 0 {
		cmd.Println("\nSources:")
		for _, c := range answer.Citations {
			cmd.Printf("  - %s\n", formatCitation(c))
		}
	}
	cmd.Printf("\nConversation: %s\n", answer.ConversationID)
	return nil
}

func formatCitation(c domain.Citation) string {
	if c.Page != nil {
		return fmt.Sprintf("%s (page %d)", c.DocumentName, *c.Page)
	}
	return c.DocumentName
}
