package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
)

func newBookmarkCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "bookmark <dataset-id> <boot-id> <row-id> <color-index>",
		Short: "Bookmark an event row (color 0 clears)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dataset id: %s", args[0])
			}
			rowID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid row id: %s", args[2])
			}
			colorIndex, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid color index: %s", args[3])
			}

			ctx := context.Background()
			cat := catalog.New("", nil)

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

			if err := st.SetBookmark(ctx, userID, args[1], rowID, colorIndex); err != nil {
				return err
			}

			if colorIndex <= 0 {
				fmt.Printf("Bookmark cleared on boot %s row %d\n", args[1], rowID)
			} else {
				fmt.Printf("Bookmarked boot %s row %d with color %d\n", args[1], rowID, colorIndex)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id owning the bookmark")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
