package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/model"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <dataset-id> [boot-id]",
		Short: "Export a boot as zstd-compressed JSON",
		Long:  "Export writes one boot (the latest when no boot id is given) as a zstd-compressed JSON document suitable for backup or re-ingestion.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dataset id: %s", args[0])
			}

			bootID := ""
			if len(args) == 2 {
				bootID = args[1]
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

			data, err := st.LoadBoot(ctx, bootID)
			if err != nil {
				return err
			}
			if data == nil {
				return fmt.Errorf("no boot to export")
			}

			if output == "" {
				output = fmt.Sprintf("boot_%s.json.zst", data.BootID)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}

			enc, err := zstd.NewWriter(f)
			if err != nil {
				_ = f.Close()
				return err
			}

			payload := map[string]any{
				"boot_id": data.BootID,
				"start":   data.Start.Format("2006-01-02T15:04:05") + "Z",
				"end":     data.End.Format("2006-01-02T15:04:05") + "Z",
				"hours":   data.Hours,
				"events":  exportEvents(data),
			}
			if err := json.NewEncoder(enc).Encode(payload); err != nil {
				_ = enc.Close()
				_ = f.Close()
				return err
			}

			if err := enc.Close(); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Printf("Exported boot %s (%d events) to %s\n", data.BootID, len(data.Events), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default boot_<id>.json.zst)")

	return cmd
}

// exportEvents renders events in the upload payload shape so an exported
// boot can be re-ingested as-is.
func exportEvents(data *model.BootData) []map[string]any {
	events := make([]map[string]any, 0, len(data.Events))
	for _, e := range data.Events {
		item := map[string]any{
			"row_id":      e.RowID,
			"name":        e.Name,
			"description": e.Description,
			"color":       e.Color,
			"system":      e.System,
			"subsystem":   e.Subsystem,
			"unit":        e.Unit,
			"code":        e.Code,
			"set_clear":   e.SetClear,
			"utctime":     e.UTCTime,
			"norm_time":   e.NormTime,
			"channels":    e.Channels,
			"data":        e.Data,
			"event_id":    e.EventID,
			"tags":        e.Tags,
		}
		if e.ATime != nil {
			item["a_time"] = *e.ATime
		}
		if e.BTime != nil {
			item["b_time"] = *e.BTime
		}
		if e.CTime != nil {
			item["c_time"] = *e.CTime
		}
		if e.DTime != nil {
			item["d_time"] = *e.DTime
		}
		events = append(events, item)
	}
	return events
}
