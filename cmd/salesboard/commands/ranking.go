package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/export"
	"github.com/Sumatoshi-tech/salesboard/pkg/format"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const (
	rankingCmdUse   = "ranking <payload.json|->"
	rankingCmdShort = "Print the store sales ranking"
	rankingArgCount = 1
	orderFlag       = "order"
	orderUsage      = "sort order (asc or desc, default from dashboard.store_sort)"
	xlsxFlag        = "xlsx"
	xlsxUsage       = "also write the ranking as an Excel workbook to this file"
)

// ErrNoStores is returned when the payload carries no store sales.
var ErrNoStores = errors.New("payload has no sales_by_store data")

// NewRankingCommand creates the ranking subcommand.
func NewRankingCommand(g *GlobalOptions) *cobra.Command {
	return buildRankingCommand(g)
}

func buildRankingCommand(g *GlobalOptions) *cobra.Command {
	var order, xlsxPath string

	cmd := &cobra.Command{
		Use:   rankingCmdUse,
		Short: rankingCmdShort,
		Args:  cobra.ExactArgs(rankingArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanking(cmd, g, args[0], order, xlsxPath)
		},
	}

	cmd.Flags().StringVar(&order, orderFlag, "", orderUsage)
	cmd.Flags().StringVar(&xlsxPath, xlsxFlag, "", xlsxUsage)

	return cmd
}

func runRanking(cmd *cobra.Command, g *GlobalOptions, path, order, xlsxPath string) error {
	a, err := newApp(g, observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	p, err := readPayload(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if !p.Has(widgets.KeySalesByStore) {
		return ErrNoStores
	}

	b := a.newBoard(board.Deps{})
	b.Load(p)

	rows := b.Ranking.Rows()
	if order != "" {
		rows = b.SortStores(payload.ParseOrder(order))
	}

	writeRankingTable(cmd.OutOrStdout(), rows)

	if xlsxPath == "" {
		return nil
	}

	buf, err := export.StoreWorkbook(b.Cards(), rows)
	if err != nil {
		return err
	}

	if err := os.WriteFile(xlsxPath, buf.Bytes(), outputFilePerm); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %d stores to %s\n", len(rows), xlsxPath)

	return nil
}

func writeRankingTable(w io.Writer, rows []widgets.StoreRow) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"#", "Store", "Sales"})

	var total float64

	for i, row := range rows {
		tbl.AppendRow(table.Row{i + 1, row.Store, row.Formatted})

		total += row.Sales
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d stores", len(rows)), format.Currency(total, true)})

	fmt.Fprintln(w, tbl.Render())
}
