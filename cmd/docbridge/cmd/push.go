package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/convert"
	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/org"
	"github.com/gerunddev/docbridge/internal/sync"
)

var (
	pushDryRun   bool
	pushShowBody bool
)

var pushCmd = &cobra.Command{
	Use:   "push <org-file>",
	Short: "Replace the Google Doc's content with the org file's",
	Long: `Converts the org file to batchUpdate requests and replaces the linked
document's content. With --dry-run the requests are replayed locally instead
and the org file is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pushDryRun {
			return dryRunPush(args[0])
		}

		engine := sync.NewEngine(offlineClient{}, newLogger())
		result, err := engine.Push(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		return emit(result)
	},
}

// dryRunPush converts and replays the requests in memory, without writing the
// org file or talking to any remote.
func dryRunPush(orgPath string) error {
	doc, err := org.ParseFile(orgPath)
	if err != nil {
		return err
	}
	gdocID := doc.GDocID()
	if gdocID == "" {
		return sync.ErrNotInitialized
	}

	reqs := convert.ToRequests(doc)
	body, err := gdocs.Apply(reqs)
	if err != nil {
		return fmt.Errorf("request replay failed: %w", err)
	}

	result := map[string]any{
		"gdoc_id":         gdocID,
		"dry_run":         true,
		"requests_sent":   len(reqs),
		"comments_posted": len(convert.CommentDirectives(doc)),
		"rendered_length": len(body),
	}
	if pushShowBody {
		result["body"] = body
	}
	return emit(result)
}

func init() {
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "replay requests locally instead of pushing")
	pushCmd.Flags().BoolVar(&pushShowBody, "show-body", false, "include the replayed document body (dry run only)")
	rootCmd.AddCommand(pushCmd)
}
