package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/org"
	"github.com/gerunddev/docbridge/internal/sync"
)

var (
	pullForce       bool
	pullBackup      bool
	pullAnnotations string
)

// annotationsFile is the shape a collaborator writes after fetching from the
// Docs and Drive APIs.
type annotationsFile struct {
	Comments    []gdocs.Comment    `json:"comments"`
	Suggestions []gdocs.Suggestion `json:"suggestions"`
}

var pullCmd = &cobra.Command{
	Use:   "pull <org-file>",
	Short: "Merge remote comments and suggestions into the org file",
	Long: `Appends remote comments and suggestions to the file's GDOCS_ANNOTATIONS
section. Pass --annotations with a JSON file of fetched comments and
suggestions; fetching directly needs the Google transport.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := pullClient(args[0])
		if err != nil {
			return err
		}

		engine := sync.NewEngine(client, newLogger())
		result, err := engine.Pull(cmd.Context(), args[0], sync.PullOptions{
			Force:     pullForce,
			Backup:    pullBackup,
			BackupDir: cfg.BackupDir,
		})
		if err != nil {
			return err
		}
		return emit(result)
	},
}

// pullClient returns a memory client seeded from --annotations, or the
// offline client when no annotations file was given.
func pullClient(orgPath string) (gdocs.Client, error) {
	if pullAnnotations == "" {
		return offlineClient{}, nil
	}

	data, err := os.ReadFile(pullAnnotations)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations file: %w", err)
	}
	var ann annotationsFile
	if err := json.Unmarshal(data, &ann); err != nil {
		return nil, fmt.Errorf("failed to parse annotations file: %w", err)
	}

	doc, err := org.ParseFile(orgPath)
	if err != nil {
		return nil, err
	}
	gdocID := doc.GDocID()
	if gdocID == "" {
		return nil, sync.ErrNotInitialized
	}

	mem := gdocs.NewMemoryClient()
	mem.AddDocument(gdocID, "")
	for _, c := range ann.Comments {
		mem.AddComment(gdocID, c)
	}
	for _, s := range ann.Suggestions {
		mem.AddSuggestion(gdocID, s)
	}
	return mem, nil
}

func init() {
	pullCmd.Flags().BoolVar(&pullForce, "force", false, "pull despite local changes")
	pullCmd.Flags().BoolVar(&pullBackup, "backup", false, "back the org file up before pulling")
	pullCmd.Flags().StringVar(&pullAnnotations, "annotations", "", "JSON file of fetched comments and suggestions")
	rootCmd.AddCommand(pullCmd)
}
