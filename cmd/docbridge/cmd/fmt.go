package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/diff"
	"github.com/gerunddev/docbridge/internal/org"
	"github.com/gerunddev/docbridge/internal/styles"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <org-file>",
	Short: "Normalize an org file through parse and serialize",
	Long: `Rewrites the file in canonical form: re-padded tables, renumbered ordered
lists, sorted property drawers. Run 'docbridge diff' first to preview.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgPath := args[0]

		content, err := os.ReadFile(orgPath)
		if err != nil {
			return err
		}

		doc := org.Parse(string(content))
		normalized := org.Serialize(doc)
		changed := normalized != string(content)

		if changed {
			if err := org.WriteFile(orgPath, doc); err != nil {
				return err
			}
		}
		return emit(map[string]any{"path": orgPath, "changed": changed})
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <org-file>",
	Short: "Preview what fmt would change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, err := diff.Normalization(args[0])
		if err != nil {
			return err
		}
		if rendered == "" {
			fmt.Println(styles.DimStyle.Render("already normalized"))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(diffCmd)
}
