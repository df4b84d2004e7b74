package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [dataset-id]",
		Short: "Show a dataset's identity record",
		Long:  "Info prints a dataset's identity record. Without an id it shows the oldest dataset.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cat := catalog.New("", nil)

			var id int64
			if len(args) == 1 {
				parsed, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid dataset id: %s", args[0])
				}
				id = parsed
			} else {
				oldest, err := cat.First(ctx)
				if err != nil {
					return err
				}
				if oldest == nil {
					return fmt.Errorf("no datasets found")
				}
				id = oldest.ID
			}

			st, ds, err := cat.Open(ctx, id)
			if err != nil {
				return err
			}
			if ds == nil {
				return fmt.Errorf("dataset not found: %d", id)
			}
			defer func() {
				_ = st.Close()
			}()

			boots, err := st.ListBoots(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("ID:          %d\n", ds.ID)
			fmt.Printf("Name:        %s\n", ds.Name)
			if ds.Description != "" {
				fmt.Printf("Description: %s\n", ds.Description)
			}
			if ds.OwnerUserID != nil {
				fmt.Printf("Owner:       user %d\n", *ds.OwnerUserID)
			} else {
				fmt.Printf("Owner:       shared\n")
			}
			fmt.Printf("Store:       %s\n", ds.StorePath)
			fmt.Printf("Logs:        %d\n", ds.LogCount)
			fmt.Printf("Boots:       %d\n", len(boots))
			fmt.Printf("Created:     %s\n", ds.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Updated:     %s\n", ds.UpdatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	return cmd
}
