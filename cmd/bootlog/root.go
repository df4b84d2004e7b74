package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bootlog",
	Short: "bootlog - a per-dataset store for boot event logs",
	Long:  "bootlog stores time-ordered boot logs in self-describing per-dataset files and serves them back with their annotations.",
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newBootsCmd())
	rootCmd.AddCommand(newMetaCmd())
	rootCmd.AddCommand(newBookmarkCmd())
	rootCmd.AddCommand(newBookmarksCmd())
	rootCmd.AddCommand(newCommentCmd())
	rootCmd.AddCommand(newCommentsCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportLegacyCmd())
	rootCmd.AddCommand(newMCPCmd())
}
