package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
)

func newBookmarksCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "bookmarks <dataset-id> <boot-id>",
		Short: "List a user's bookmarks on a boot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dataset id: %s", args[0])
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

			marks, err := st.ListBookmarksForBoot(ctx, userID, args[1])
			if err != nil {
				return err
			}
			if len(marks) == 0 {
				fmt.Println("No bookmarks.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Row", "Color", "Updated"})
			for _, b := range marks {
				t.AppendRow(table.Row{b.RowID, b.ColorIndex, b.UpdatedAt.Format("2006-01-02 15:04:05")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id owning the bookmarks")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
