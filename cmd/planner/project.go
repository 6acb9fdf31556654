package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/store"
	"business_planner/pkg/core/valuation"

	"github.com/spf13/cobra"
)

func (a *app) projectCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "project <file>",
		Short: "Print the monthly projection",
		Long:  `Generate the monthly rows of a business document: revenue, COGS, OPEX, CAPEX and cash flow.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readBusiness(cmd, args[0])
			if err != nil {
				return err
			}

			payload, hit, err := a.memo.Get(cmd.Context(), store.KindProjection, p.JSON, func() (interface{}, error) {
				return a.engine.MonthlyData(p.Doc), nil
			})
			if err != nil {
				return err
			}
			var rows []projection.MonthlyRow
			if err := json.Unmarshal(payload, &rows); err != nil {
				return fmt.Errorf("failed to decode cached projection: %w", err)
			}
			a.logger.Debug("projection ready", "months", len(rows), "cached", hit)

			if asJSON {
				return writeJSON(cmd, rows)
			}
			return printRows(cmd, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}

func printRows(cmd *cobra.Command, rows []projection.MonthlyRow) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		HeaderStyle.Render("Month"),
		HeaderStyle.Render("Revenue"),
		HeaderStyle.Render("COGS"),
		HeaderStyle.Render("Gross profit"),
		HeaderStyle.Render("OPEX"),
		HeaderStyle.Render("CAPEX"),
		HeaderStyle.Render("Net cash flow"),
		HeaderStyle.Render("Cumulative")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Month,
			formatAmount(r.Revenue),
			formatAmount(r.COGS),
			formatAmount(r.GrossProfit),
			formatAmount(r.TotalOpex),
			formatAmount(r.Capex),
			formatAmount(r.NetCashFlow),
			formatAmount(r.CumulativeCashFlow)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return w.Flush()
}

func (a *app) metricsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "metrics <file>",
		Short: "Print NPV, IRR, break-even and payback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readBusiness(cmd, args[0])
			if err != nil {
				return err
			}

			payload, hit, err := a.memo.Get(cmd.Context(), store.KindMetrics, p.JSON, func() (interface{}, error) {
				return valuation.Evaluate(a.engine, p.Doc, a.cfg.IRR), nil
			})
			if err != nil {
				return err
			}
			var m valuation.CalculatedMetrics
			if err := json.Unmarshal(payload, &m); err != nil {
				return fmt.Errorf("failed to decode cached metrics: %w", err)
			}

			if asJSON {
				m.MonthlyData = nil
				return writeJSON(cmd, m)
			}

			cur := p.Doc.Currency
			fmt.Fprintln(cmd.OutOrStdout(), RenderBox("Plan metrics", [][2]string{
				{"Total revenue", formatAmount(m.TotalRevenue) + " " + cur},
				{"Net profit", formatAmount(m.NetProfit) + " " + cur},
				{"NPV", formatAmount(m.NPV) + " " + cur},
				{"IRR", formatIRR(m.IRR)},
				{"Break-even", formatMonth(m.BreakEvenMonth)},
				{"Payback", formatMonth(m.PaybackPeriod)},
				{"Investment required", formatAmount(m.TotalInvestmentRequired) + " " + cur},
			}))
			if hit {
				fmt.Fprintln(cmd.OutOrStdout(), SubtleStyle.Render("(cached)"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metrics as JSON, without monthly rows")
	return cmd
}

func (a *app) trajectoryCmd() *cobra.Command {
	var segment string
	cmd := &cobra.Command{
		Use:   "trajectory <file>",
		Short: "Show where each month's price and volume come from",
		Long: `Print the resolved price per month, or the volume of one segment with --segment,
tagged with its source: override, yearly, base or pattern.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readBusiness(cmd, args[0])
			if err != nil {
				return err
			}
			d := p.Doc

			points := a.engine.PricingTrajectory(d.Pricing, d.Periods)
			label := "Price"
			if segment != "" {
				found := false
				for _, seg := range d.Segments {
					if seg.ID == segment {
						points = a.engine.VolumeTrajectory(seg, d.Periods, projection.DefaultsFrom(d.GrowthSettings))
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("segment %q not found", segment)
				}
				label = "Volume"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", HeaderStyle.Render("Period"), HeaderStyle.Render(label), HeaderStyle.Render("Source"))
			for _, pt := range points {
				fmt.Fprintf(w, "%d\t%s\t%s\n", pt.Period, formatAmount(pt.Value), pt.Source)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&segment, "segment", "", "segment id to trace instead of price")
	return cmd
}
