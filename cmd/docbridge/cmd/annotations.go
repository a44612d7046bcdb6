package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/convert"
	"github.com/gerunddev/docbridge/internal/org"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <org-file> <comment-id>",
	Short: "Mark a pulled comment as resolved",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgPath, commentID := args[0], args[1]

		doc, err := org.ParseFile(orgPath)
		if err != nil {
			return err
		}
		if !convert.MarkCommentResolved(doc, commentID) {
			return fmt.Errorf("no comment annotation with id %s", commentID)
		}
		if err := org.WriteFile(orgPath, doc); err != nil {
			return err
		}
		return emit(map[string]any{"comment_id": commentID, "resolved": true})
	},
}

var integrateCmd = &cobra.Command{
	Use:   "integrate <org-file> <suggestion-id>",
	Short: "Mark a pulled suggestion as integrated",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgPath, suggID := args[0], args[1]

		doc, err := org.ParseFile(orgPath)
		if err != nil {
			return err
		}
		if !convert.MarkSuggestionIntegrated(doc, suggID) {
			return fmt.Errorf("no suggestion annotation with id %s", suggID)
		}
		if err := org.WriteFile(orgPath, doc); err != nil {
			return err
		}
		return emit(map[string]any{"suggestion_id": suggID, "integrated": true})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <org-file> <annotation-id>",
	Short: "Move an annotation to the archive section",
	Long: `Finds the annotation carrying the given comment or suggestion ID and moves
its heading into GDOCS_ARCHIVE.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgPath, id := args[0], args[1]

		doc, err := org.ParseFile(orgPath)
		if err != nil {
			return err
		}

		annotation := findByID(doc, id)
		if annotation == nil {
			return fmt.Errorf("no annotation with id %s", id)
		}

		convert.MoveToArchive(doc, annotation)
		if err := org.WriteFile(orgPath, doc); err != nil {
			return err
		}
		return emit(map[string]any{"id": id, "archived": true})
	},
}

func findByID(doc *org.Document, id string) *org.Node {
	var found *org.Node
	doc.Walk(func(n *org.Node) bool {
		if n.Type == org.NodeHeading &&
			(n.Property(convert.PropCommentID) == id || n.Property(convert.PropSuggestionID) == id) {
			found = n
			return false
		}
		return true
	})
	return found
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(integrateCmd)
	rootCmd.AddCommand(archiveCmd)
}
