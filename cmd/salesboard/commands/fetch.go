package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const (
	fetchCmdUse       = "fetch"
	fetchCmdShort     = "Apply filters through the filter endpoint and render the dashboard"
	fetchOutputUsage  = "output HTML file, or - for stdout"
	endpointFlag      = "endpoint"
	endpointUsage     = "filter endpoint base URL (overrides endpoint.base_url)"
	categoryFlag      = "category"
	locationFlag      = "location"
	ageFlag           = "age"
	ageUsage          = "age range as low-high"
	ratingFlag        = "rating"
	ratingUsage       = "rating range as low-high"
	startFlag         = "start"
	endFlag           = "end"
	resetFlag         = "reset"
	resetUsage        = "reset every filter to its default instead of applying"
	initialRangeUsage = " (default: initial slider values)"
)

type fetchOptions struct {
	endpoint string
	output   string
	themeArg string
	period   string
	category string
	location string
	age      string
	rating   string
	start    string
	end      string
	reset    bool
}

// NewFetchCommand creates the fetch subcommand.
func NewFetchCommand(g *GlobalOptions) *cobra.Command {
	return buildFetchCommand(g)
}

func buildFetchCommand(g *GlobalOptions) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   fetchCmdUse,
		Short: fetchCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output == "" {
				return ErrNoOutput
			}

			return runFetch(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, outputFlag, outputShort, "", fetchOutputUsage)
	cmd.Flags().StringVar(&opts.endpoint, endpointFlag, "", endpointUsage)
	cmd.Flags().StringVar(&opts.themeArg, themeFlag, "", themeUsage)
	cmd.Flags().StringVar(&opts.period, periodFlag, "", periodUsage)
	cmd.Flags().StringVar(&opts.category, categoryFlag, "", "product category")
	cmd.Flags().StringVar(&opts.location, locationFlag, "", "store location")
	cmd.Flags().StringVar(&opts.age, ageFlag, "", ageUsage+initialRangeUsage)
	cmd.Flags().StringVar(&opts.rating, ratingFlag, "", ratingUsage+initialRangeUsage)
	cmd.Flags().StringVar(&opts.start, startFlag, "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, endFlag, "", "end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.reset, resetFlag, false, resetUsage)

	return cmd
}

func runFetch(cmd *cobra.Command, g *GlobalOptions, opts fetchOptions) error {
	state, err := opts.filterState()
	if err != nil {
		return err
	}

	a, err := newApp(g, observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	con := console{w: cmd.ErrOrStderr()}
	b := a.newBoard(board.Deps{
		Fetcher:   a.client(opts.endpoint),
		Indicator: con,
		Notifier:  con,
	})

	var out widgets.Outcome

	if opts.reset {
		out, err = b.Reset(cmd.Context())
	} else {
		out, err = b.Apply(cmd.Context(), state)
	}

	if err != nil {
		return err
	}

	if err := applyDisplayFlags(cmd, b, opts.themeArg, opts.period); err != nil {
		return err
	}

	if err := writePage(b, a.cfg.Dashboard.Title, opts.output, cmd); err != nil {
		return err
	}

	if opts.output != stdinArg {
		con.summary("rendered", opts.output, out)
	}

	return nil
}

// filterState builds the request filters. Sliders left unset keep their
// initial values, as on a freshly opened page.
func (o fetchOptions) filterState() (filterapi.FilterState, error) {
	state := filterapi.Initial()
	state.Category = o.category
	state.Location = o.location
	state.StartDate = o.start
	state.EndDate = o.end

	if o.age != "" {
		r, err := filterapi.ParseRange(o.age)
		if err != nil {
			return filterapi.FilterState{}, err
		}

		state.AgeRange = r
	}

	if o.rating != "" {
		r, err := filterapi.ParseRange(o.rating)
		if err != nil {
			return filterapi.FilterState{}, err
		}

		state.RatingRange = r
	}

	return state, nil
}
