package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/config"
	"github.com/bootlog/bootlog/internal/legacy"
)

func newImportLegacyCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "import-legacy",
		Short: "Migrate data from the old shared store into per-dataset files",
		Long:  "Import-legacy copies boots, index entries, bookmarks, and comments from the old single shared store into one file per dataset. The migration is idempotent; datasets already migrated are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				from = filepath.Join(config.GetDataDir(), "central.db")
			}

			importer := legacy.New(from, config.GetDatasetsDir(), logrus.StandardLogger())
			result, err := importer.Run(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d dataset(s), %d already migrated, %d skipped\n",
				result.Imported, result.AlreadyDone, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Path to the legacy shared store (default <data-dir>/central.db)")

	return cmd
}
