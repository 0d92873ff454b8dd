package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupConfirm bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every variant and master product created by spreadsheet imports",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cleanupConfirm {
			return fmt.Errorf("refusing to delete imported catalog data without --yes")
		}
		a, err := connect()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Imports.CleanupExcelImports(cmd.Context())
		if result != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d variants, %d master products\n", result.VariantsDeleted, result.MastersDeleted)
		}
		return err
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent completed import",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		defer a.Close()

		log, err := a.Imports.LatestImport(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(log)
	},
}

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupConfirm, "yes", "y", false, "Confirm deletion")
	rootCmd.AddCommand(cleanupCmd, latestCmd)
}
