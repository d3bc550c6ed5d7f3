package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"p9e.in/ncac/pkg/export"
)

func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every NC to an Excel workbook",
		Long:  "Dumps the whole nc table, one row per record with the column names as header, replacing the output file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.ExportPath
			}

			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			columns, rows, err := a.store.Table(cmd.Context())
			if err != nil {
				return err
			}
			if err := export.WriteFile(out, columns, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output path (default from EXPORT_PATH)")
	return cmd
}
