package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
)

func newListCmd() *cobra.Command {
	var (
		userID int64
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			cat := catalog.New("", nil)

			var owner *int64
			if userID > 0 {
				owner = &userID
			}

			datasets, err := cat.List(ctx, owner)
			if err != nil {
				return err
			}

			if format == "json" {
				type row struct {
					ID          int64  `json:"id"`
					Name        string `json:"name"`
					Description string `json:"description,omitempty"`
					OwnerUserID *int64 `json:"ownerUserId,omitempty"`
					LogCount    int64  `json:"logCount"`
					CreatedAt   string `json:"createdAt"`
				}
				out := make([]row, 0, len(datasets))
				for _, ds := range datasets {
					out = append(out, row{
						ID:          ds.ID,
						Name:        ds.Name,
						Description: ds.Description,
						OwnerUserID: ds.OwnerUserID,
						LogCount:    ds.LogCount,
						CreatedAt:   ds.CreatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Name", "Owner", "Logs", "Created"})
			for _, ds := range datasets {
				owner := "shared"
				if ds.OwnerUserID != nil {
					owner = fmt.Sprintf("user %d", *ds.OwnerUserID)
				}
				t.AppendRow(table.Row{ds.ID, ds.Name, owner, ds.LogCount, ds.CreatedAt.Format("2006-01-02 15:04:05")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Include personal datasets of this user id")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table or json)")

	return cmd
}
