package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"p9e.in/ncac/models"
	"p9e.in/ncac/pkg/ncstore"
	"p9e.in/ncac/pkg/rootcause"
)

func NewLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <nro>",
		Short: "Print one NC with its corrective actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ncstore.ParseNumber(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.store.FindByNumber(cmd.Context(), n)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
}

func printRecord(w io.Writer, rec *models.NonConformance) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("NC %d", rec.Number))
	tw.AppendRows([]table.Row{
		{"Fecha", rec.Date},
		{"Resultado Matriz", rec.MatrixResult},
		{"OP", rec.OrderNumber},
		{"Cant. Invol.", rec.QuantityInvolved},
		{"Cod. Producto", rec.ProductCode},
		{"Desc. Producto", rec.ProductDescription},
		{"Cliente", rec.Client},
		{"Cant. Scrap", rec.ScrapQuantity},
		{"Costo", rec.Cost},
		{"Cant. Recuperada", rec.RecoveredQuantity},
		{"Falla", text.WrapText(rec.Failure, 60)},
		{"Observaciones", text.WrapText(rec.Observations, 60)},
	})
	tw.Render()

	if rec.RootCause != "" {
		a, err := rootcause.Decode(rec.RootCause)
		if err != nil {
			fmt.Fprintf(w, "\nRoot cause (raw): %s\n", rec.RootCause)
		} else {
			fmt.Fprintf(w, "\n%s\n", rootcause.Format(a))
		}
	}

	if len(rec.Actions) == 0 {
		fmt.Fprintln(w, "\nNo corrective actions.")
		return nil
	}

	at := table.NewWriter()
	at.SetOutputMirror(w)
	at.AppendHeader(table.Row{"#", "Tarea", "Tiempo", "Responsable", "Fecha", "Estado", "Adjuntos"})
	for i, action := range rec.Actions {
		at.AppendRow(table.Row{
			i + 1,
			text.WrapText(action.Task, 40),
			action.EstimatedTime,
			action.Responsible,
			action.DueDate,
			action.Status,
			len(action.Attachments),
		})
	}
	at.Render()
	return nil
}
