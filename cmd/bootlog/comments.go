package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/identity"
)

func newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <dataset-id> <boot-id>",
		Short: "List a boot's comments with their authors",
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

			users, err := identity.Open("")
			if err != nil {
				return err
			}
			defer func() {
				_ = users.Close()
			}()

			comments, err := st.ListCommentsWithAuthors(ctx, args[1], users)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Println("No comments.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Row", "Author", "Created", "Body"})
			for _, c := range comments {
				author := c.AuthorName
				if author == "" {
					author = c.AuthorEmail
				}
				if author == "" {
					author = fmt.Sprintf("user %d", c.UserID)
				}
				t.AppendRow(table.Row{
					c.ID, c.RowID, author, c.CreatedAt.Format("2006-01-02 15:04:05"), c.Body,
				})
			}
			t.Render()
			return nil
		},
	}

	return cmd
}
