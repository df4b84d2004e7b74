package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/identity"
)

func newCommentCmd() *cobra.Command {
	var (
		email    string
		parentID int64
	)

	cmd := &cobra.Command{
		Use:   "comment <dataset-id> <boot-id> <row-id> <body>",
		Short: "Comment on an event row",
		Long:  "Comment attaches a note to one event row, optionally as a reply to an existing comment on the same row. The author account is created on first use.",
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

			users, err := identity.Open("")
			if err != nil {
				return err
			}
			defer func() {
				_ = users.Close()
			}()

			author, err := users.GetOrCreateUser(ctx, email)
			if err != nil {
				return err
			}
			if err := users.UpdateUserLastSeen(ctx, author.ID, time.Now()); err != nil {
				return err
			}

			var parent *int64
			if parentID > 0 {
				parent = &parentID
			}

			created, err := st.CreateComment(ctx, author.ID, args[1], rowID, parent, args[3])
			if err != nil {
				return err
			}

			fmt.Printf("Comment %d added to boot %s row %d\n", created.ID, args[1], rowID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "user", "", "Author email")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Reply to this comment id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
