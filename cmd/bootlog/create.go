package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
)

func newCreateCmd() *cobra.Command {
	var (
		description string
		userID      int64
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cat := catalog.New("", nil)

			var owner *int64
			if userID > 0 {
				owner = &userID
			}

			existing, err := cat.ResolveByName(ctx, args[0], owner)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("dataset already exists: %s", args[0])
			}

			ds, err := cat.Create(ctx, args[0], description, owner)
			if err != nil {
				return err
			}

			fmt.Printf("Created dataset %d at %s\n", ds.ID, ds.StorePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Dataset description")
	cmd.Flags().Int64Var(&userID, "user", 0, "Create as a personal dataset owned by this user id")

	return cmd
}
