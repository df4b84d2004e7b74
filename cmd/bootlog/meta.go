package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/model"
)

func newMetaCmd() *cobra.Command {
	var (
		system  string
		eventID string
		tags    string
	)

	cmd := &cobra.Command{
		Use:   "meta <dataset-id> <boot-id>",
		Short: "Rewrite a boot's system/event-id/tags metadata",
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

			bootID := args[1]
			boot, err := st.GetBoot(ctx, bootID)
			if err != nil {
				return err
			}
			if boot == nil {
				return fmt.Errorf("boot not found: %s", bootID)
			}

			if err := st.SetBootMetadata(ctx, bootID, system, eventID, model.SplitTags(tags)); err != nil {
				return err
			}

			fmt.Printf("Updated metadata for boot %s\n", bootID)
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "System name")
	cmd.Flags().StringVar(&eventID, "event-id", "", "Classification tag")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tag list")

	return cmd
}
