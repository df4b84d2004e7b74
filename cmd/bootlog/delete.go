package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <dataset-id>",
		Short: "Delete a dataset and everything it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dataset id: %s", args[0])
			}

			ctx := context.Background()
			cat := catalog.New("", nil)

			if err := cat.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Printf("Deleted dataset %d\n", id)
			return nil
		},
	}

	return cmd
}
