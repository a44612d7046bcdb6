package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/sync"
)

var (
	initTitle  string
	initGDocID string
)

var initCmd = &cobra.Command{
	Use:   "init <org-file>",
	Short: "Link an org file to a Google Doc",
	Long: `Records a GDOC_ID in the org file's metadata. Pass --gdoc-id to link an
existing document; creating a new one needs the Google transport.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := sync.NewEngine(offlineClient{}, newLogger())

		docID, err := engine.Initialize(cmd.Context(), args[0], initTitle, initGDocID)
		if err != nil {
			return err
		}

		return emit(map[string]any{
			"gdoc_id": docID,
			"url":     gdocs.DocumentURL(docID),
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initTitle, "title", "", "title for a newly created document")
	initCmd.Flags().StringVar(&initGDocID, "gdoc-id", "", "existing Google Doc ID to link")
	rootCmd.AddCommand(initCmd)
}
