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

func newBootsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boots <dataset-id>",
		Short: "List a dataset's boots, newest first",
		Args:  cobra.ExactArgs(1),
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

			boots, err := st.ListBoots(ctx)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Boot", "Created", "Events"})
			for _, b := range boots {
				t.AppendRow(table.Row{b.BootID, b.CreatedAt.Format("2006-01-02 15:04:05"), b.EventCount})
			}
			t.Render()
			return nil
		},
	}

	return cmd
}
