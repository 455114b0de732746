package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
	"github.com/Sumatoshi-tech/salesboard/pkg/page"
)

const (
	renderCmdUse      = "render <payload.json|->"
	renderCmdShort    = "Render a payload as an HTML dashboard"
	renderArgCount    = 1
	renderOutputUsage = "output HTML file, or - for stdout"
	dumpOptionsFlag   = "dump-options"
	dumpOptionsUsage  = "write the effective options of every chart as YAML to this file"
)

// NewRenderCommand creates the render subcommand.
func NewRenderCommand(g *GlobalOptions) *cobra.Command {
	return buildRenderCommand(g)
}

func buildRenderCommand(g *GlobalOptions) *cobra.Command {
	var (
		output      string
		themeName   string
		period      string
		dumpOptions string
	)

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long:  renderCmdShort + ". The payload argument is a " + payloadArgsUsage + ".",
		Args:  cobra.ExactArgs(renderArgCount),
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
			out := b.Load(p)

			if err := applyDisplayFlags(cmd, b, themeName, period); err != nil {
				return err
			}

			if err := writePage(b, a.cfg.Dashboard.Title, output, cmd); err != nil {
				return err
			}

			if dumpOptions != "" {
				if err := writeOptions(b.Engine.Registry, dumpOptions); err != nil {
					return err
				}
			}

			if output != stdinArg {
				console{w: cmd.ErrOrStderr()}.summary("rendered", output, out)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, outputFlag, outputShort, "", renderOutputUsage)
	cmd.Flags().StringVar(&themeName, themeFlag, "", themeUsage)
	cmd.Flags().StringVar(&period, periodFlag, "", periodUsage)
	cmd.Flags().StringVar(&dumpOptions, dumpOptionsFlag, "", dumpOptionsUsage)

	return cmd
}

func writePage(b *board.Board, title, output string, cmd *cobra.Command) error {
	w, closeFn, err := createOutput(output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	renderErr := page.Render(w, b, page.Options{Title: title})

	return errors.Join(renderErr, closeFn())
}

// writeOptions dumps the effective options of every live chart keyed by
// widget id.
func writeOptions(reg *chart.Registry, path string) error {
	dump := make(map[string]chart.Options, reg.Len())

	reg.Each(func(h *chart.Handle) {
		dump[h.ID()] = h.Options()
	})

	data, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	if err := os.WriteFile(path, data, outputFilePerm); err != nil {
		return fmt.Errorf("write options: %w", err)
	}

	return nil
}
