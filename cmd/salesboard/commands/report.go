package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/cache"
	"github.com/Sumatoshi-tech/salesboard/pkg/export"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
)

const (
	reportCmdUse      = "report <payload.json|->"
	reportCmdShort    = "Write a PDF report of the dashboard charts"
	reportArgCount    = 1
	reportOutputUsage = "output PDF file, or - for stdout"
	titleFlag         = "title"
	titleUsage        = "report heading"
)

// NewReportCommand creates the report subcommand.
func NewReportCommand(g *GlobalOptions) *cobra.Command {
	return buildReportCommand(g)
}

func buildReportCommand(g *GlobalOptions) *cobra.Command {
	var output, title, themeName string

	cmd := &cobra.Command{
		Use:   reportCmdUse,
		Short: reportCmdShort,
		Args:  cobra.ExactArgs(reportArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoOutput
			}

			a, err := newApp(g, observability.ModeCLI, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			p, err := readPayload(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			b := a.newBoard(board.Deps{})
			b.Load(p)

			if err := applyDisplayFlags(cmd, b, themeName, ""); err != nil {
				return err
			}

			report, err := sessionReport(b, title, nil)
			if err != nil {
				return err
			}

			w, closeFn, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if err := errors.Join(report.Write(w), closeFn()); err != nil {
				return err
			}

			if output != stdinArg {
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %d charts to %s\n", len(report.Images), output)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, outputFlag, outputShort, "", reportOutputUsage)
	cmd.Flags().StringVar(&title, titleFlag, export.DefaultTitle, titleUsage)
	cmd.Flags().StringVar(&themeName, themeFlag, "", themeUsage)

	return cmd
}

// sessionReport snapshots every visible chart of b into a report.
func sessionReport(b *board.Board, title string, snapshots *cache.Snapshots) (export.Report, error) {
	images, err := export.Snapshots(b.Charts(), snapshots)
	if err != nil {
		return export.Report{}, err
	}

	return export.Report{
		Title:   title,
		Cards:   b.Cards(),
		Filters: b.Filters().Labels(),
		Images:  images,
	}, nil
}
