package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/convert"
	"github.com/gerunddev/docbridge/internal/org"
)

var requestsCmd = &cobra.Command{
	Use:   "requests <org-file>",
	Short: "Dump the batchUpdate requests for an org file",
	Long: `Converts the org file and prints the resulting request list as JSON, the
shape documents.batchUpdate accepts. Always JSON regardless of --json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := org.ParseFile(args[0])
		if err != nil {
			return err
		}

		reqs := convert.ToRequests(doc)
		data, err := json.MarshalIndent(reqs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requestsCmd)
}
