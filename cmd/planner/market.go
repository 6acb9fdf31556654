package main

import (
	"fmt"
	"text/tabwriter"

	"business_planner/pkg/core/market"
	"business_planner/pkg/core/validate"

	"github.com/spf13/cobra"
)

func (a *app) marketCmd() *cobra.Command {
	var (
		months int
		price  float64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "market <file>",
		Short: "Size the market and score the opportunity",
		Long: `Project TAM, SAM, SOM and market share month by month, and rate the
opportunity from 0 to 100.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readMarket(cmd, args[0])
			if err != nil {
				return err
			}
			m := p.Doc
			horizon := a.engine.Config().Horizon(months)
			records := market.Project(m, horizon, price)
			score := market.Score(m)

			if asJSON {
				return writeJSON(cmd, struct {
					Score   market.OpportunityScore `json:"score"`
					Records []market.PeriodRecord   `json:"records"`
				}{score, records})
			}

			out := cmd.OutOrStdout()
			hhi := market.HHI(m.MarketShare.CurrentPosition, m.CompetitiveLandscape.Competitors)
			fmt.Fprintln(out, RenderBox("Market opportunity", [][2]string{
				{"Score", fmt.Sprintf("%.1f / 100 (%s)", score.Score, score.Interpretation)},
				{"Market size", fmt.Sprintf("%.1f", score.Breakdown.MarketSize)},
				{"Market growth", fmt.Sprintf("%.1f", score.Breakdown.MarketGrowth)},
				{"Competitive position", fmt.Sprintf("%.1f", score.Breakdown.CompetitivePosition)},
				{"Entry barriers", fmt.Sprintf("%.1f", score.Breakdown.EntryBarriers)},
				{"HHI", fmt.Sprintf("%.4f (%s)", hhi, market.ConcentrationLevel(hhi))},
			}))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				HeaderStyle.Render("Year"),
				HeaderStyle.Render("TAM"),
				HeaderStyle.Render("SAM"),
				HeaderStyle.Render("SOM"),
				HeaderStyle.Render("Share %"),
				HeaderStyle.Render("Units / month"))
			for _, r := range records {
				if (r.Period-1)%12 != 0 {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t\n",
					r.Year, formatAmount(r.TAM), formatAmount(r.SAM), formatAmount(r.SOM),
					r.MarketShare, formatAmount(r.MarketBasedVolume))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&months, "months", 60, "months to project")
	cmd.Flags().Float64Var(&price, "price", 0, "average unit price used to turn revenue into units")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print score and records as JSON")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var isMarket bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document for errors and suspicious values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isMarket {
				p, err := readMarket(cmd, args[0])
				if err != nil {
					return err
				}
				return printValidation(cmd, market.Validate(p.Doc))
			}

			p, err := readBusiness(cmd, args[0])
			if err != nil {
				return err
			}
			rep := validate.Document(a.engine, p.Doc, a.cfg.IRR)
			if rep.Linkage != nil {
				for _, o := range rep.Linkage.Outliers {
					fmt.Fprintln(cmd.OutOrStdout(), FormatWarning(fmt.Sprintf("%s in month %d: %s", o.Item, o.Month, o.Reason)))
				}
			}
			return printValidation(cmd, rep.ValidationResult)
		},
	}
	cmd.Flags().BoolVar(&isMarket, "market", false, "treat the file as a market document")
	return cmd
}
