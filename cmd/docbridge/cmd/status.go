package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/sync"
)

var statusCmd = &cobra.Command{
	Use:   "status <org-file>",
	Short: "Show the sync state of an org file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := sync.NewEngine(offlineClient{}, newLogger())

		st, err := engine.SyncState(args[0])
		if err != nil {
			return err
		}
		return emit(st)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
