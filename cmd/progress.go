package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gobarajas/outreach-cli/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset the send checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := progress.NewStore(cfg.Progress.File)
		cp := store.Load()
		if cp.Index == 0 && cp.Date == "" {
			fmt.Println("No checkpoint saved.")
			return nil
		}
		fmt.Printf("Checkpoint: %d contacts sent (saved %s)\n", cp.Index, cp.Date)
		fmt.Printf("File: %s\n", store.Path())
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := progress.NewStore(cfg.Progress.File)
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Checkpoint cleared.")
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressResetCmd)
	rootCmd.AddCommand(progressCmd)
}
