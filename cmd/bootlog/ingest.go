package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/ingest"
	"github.com/bootlog/bootlog/internal/store"
)

func newIngestCmd() *cobra.Command {
	var (
		description string
		userID      int64
	)

	cmd := &cobra.Command{
		Use:   "ingest <dataset-name> <events-file>",
		Short: "Ingest a JSON event payload as a new boot",
		Long:  "Ingest reads an events file (a JSON array or an object with an events array), creating the named dataset on first use.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			events, err := ingest.ParseEvents(raw)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return fmt.Errorf("no events found in %s", args[1])
			}

			ctx := context.Background()
			cat := catalog.New("", nil)

			var owner *int64
			if userID > 0 {
				owner = &userID
			}

			ds, err := cat.ResolveByName(ctx, args[0], owner)
			if err != nil {
				return err
			}
			if ds == nil {
				ds, err = cat.Create(ctx, args[0], description, owner)
				if err != nil {
					return err
				}
			}

			st, err := store.Open(ds.StorePath)
			if err != nil {
				return err
			}
			defer func() {
				_ = st.Close()
			}()

			bootID, err := st.Ingest(ctx, events)
			if err != nil {
				return err
			}

			fmt.Printf("Ingested %d events into dataset %d as boot %s\n", len(events), ds.ID, bootID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description for a newly created dataset")
	cmd.Flags().Int64Var(&userID, "user", 0, "Ingest into this user's personal dataset")

	return cmd
}
