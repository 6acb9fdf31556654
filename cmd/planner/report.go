package main

import (
	"fmt"
	"os"

	"business_planner/pkg/core/market"
	"business_planner/pkg/core/report"
	"business_planner/pkg/core/sensitivity"
	"business_planner/pkg/core/valuation"

	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	var (
		marketFile string
		title      string
		out        string
		html       bool
		tornado    bool
	)
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Write a markdown or HTML plan report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readBusiness(cmd, args[0])
			if err != nil {
				return err
			}

			in := report.Input{
				Title:    title,
				Currency: p.Doc.Currency,
				Metrics:  valuation.Evaluate(a.engine, p.Doc, a.cfg.IRR),
			}
			if marketFile != "" {
				mp, err := readMarket(cmd, marketFile)
				if err != nil {
					return err
				}
				score := market.Score(mp.Doc)
				in.Score = &score
				var price float64
				if p.Doc.Pricing.AvgUnitPrice != nil {
					price = *p.Doc.Pricing.AvgUnitPrice
				}
				in.Market = market.Project(mp.Doc, a.engine.Config().Horizon(p.Doc.Periods), price)
			}
			if tornado {
				impacts, err := a.tornado(sensitivity.NewRunner(a.engine, a.cfg.IRR), p.JSON, 0.2)
				if err != nil {
					return err
				}
				in.Tornado = impacts
			}

			doc := report.BuildMarkdown(in)
			if html {
				if doc, err = report.RenderHTML(doc); err != nil {
					return err
				}
			}

			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), FormatSuccess("report written to "+out))
			return nil
		},
	}
	cmd.Flags().StringVar(&marketFile, "market", "", "market document to include")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&html, "html", false, "render HTML instead of markdown")
	cmd.Flags().BoolVar(&tornado, "sensitivity", false, "include a driver ranking")
	return cmd
}
