package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"business_planner/pkg/core/sensitivity"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func (a *app) sweepCmd() *cobra.Command {
	var (
		path   string
		lo     float64
		hi     float64
		steps  int
		spread float64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "sweep <file>",
		Short: "Run what-if sweeps over numeric inputs",
		Long: `With --path, substitute evenly spaced values between --min and --max at that
JSON path and print the metrics for each. Without --path, rank the usual
drivers (price, volumes, costs, discount rate) by their NPV swing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readBusiness(cmd, args[0])
			if err != nil {
				return err
			}
			runner := sensitivity.NewRunner(a.engine, a.cfg.IRR)

			if path == "" {
				impacts, err := a.tornado(runner, p.JSON, spread)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, impacts)
				}
				return printTornado(cmd, impacts)
			}

			d := sensitivity.Driver{Path: path, Range: [3]float64{lo, (lo + hi) / 2, hi}}
			if err := d.Validate(); err != nil {
				return err
			}
			values := sensitivity.SweepValues(d, steps)
			bar := newProgressBar(len(values), "Sweeping "+path)
			points := make([]sensitivity.Point, 0, len(values))
			for _, v := range values {
				pt, err := runner.Evaluate(p.JSON, path, v)
				if err != nil {
					return err
				}
				points = append(points, pt)
				advance(bar)
			}
			if asJSON {
				return writeJSON(cmd, points)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				HeaderStyle.Render("Value"),
				HeaderStyle.Render("NPV"),
				HeaderStyle.Render("IRR"),
				HeaderStyle.Render("Break-even"),
				HeaderStyle.Render("Payback"))
			for _, pt := range points {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
					formatAmount(pt.Value), formatAmount(pt.NPV), formatIRR(pt.IRR),
					formatMonth(pt.BreakEvenMonth), formatMonth(pt.PaybackPeriod))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "JSON path to vary, e.g. pricing.avg_unit_price")
	cmd.Flags().Float64Var(&lo, "min", 0, "lowest value")
	cmd.Flags().Float64Var(&hi, "max", 0, "highest value")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of values between min and max")
	cmd.Flags().Float64Var(&spread, "spread", 0.2, "relative range of each default driver")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func (a *app) tornado(runner *sensitivity.Runner, doc []byte, spread float64) ([]sensitivity.Impact, error) {
	drivers := sensitivity.DefaultDrivers(doc, spread)
	a.logger.Debug("ranking drivers", "count", len(drivers))

	bar := newProgressBar(len(drivers), "Ranking drivers")
	impacts := make([]sensitivity.Impact, 0, len(drivers))
	for _, d := range drivers {
		one, err := runner.Tornado(doc, []sensitivity.Driver{d})
		if err != nil {
			return nil, err
		}
		impacts = append(impacts, one...)
		advance(bar)
	}
	sort.SliceStable(impacts, func(i, j int) bool { return impacts[i].NPVSwing > impacts[j].NPVSwing })
	return impacts, nil
}

func printTornado(cmd *cobra.Command, impacts []sensitivity.Impact) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Driver"),
		HeaderStyle.Render("Range"),
		HeaderStyle.Render("NPV low"),
		HeaderStyle.Render("NPV high"),
		HeaderStyle.Render("Swing"))
	for _, im := range impacts {
		label := im.Driver.Rationale
		if label == "" {
			label = im.Driver.Path
		}
		fmt.Fprintf(w, "%s\t%s .. %s\t%s\t%s\t%s\n",
			label, formatAmount(im.Driver.Min()), formatAmount(im.Driver.Max()),
			formatAmount(im.NPVLow), formatAmount(im.NPVHigh), formatAmount(im.NPVSwing))
	}
	return w.Flush()
}

// newProgressBar draws on stderr when it is a terminal and discards otherwise.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	var out io.Writer = io.Discard
	if fi, err := os.Stderr.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		out = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
}

func advance(bar *progressbar.ProgressBar) {
	if err := bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
