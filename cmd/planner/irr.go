package main

import (
	"fmt"
	"strconv"
	"strings"

	"business_planner/pkg/core/valuation"

	"github.com/spf13/cobra"
)

func (a *app) irrCmd() *cobra.Command {
	var rate float64
	cmd := &cobra.Command{
		Use:   "irr -- <flow> [flow...]",
		Short: "Compute IRR, NPV, break-even and payback for monthly cash flows",
		Long: `Flows are monthly amounts, separated by spaces or commas. Put them after --
so that negative values are not read as flags:

  planner irr --rate 0.1 -- -1000 300 300 300 300`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flows, err := parseFlows(args)
			if err != nil {
				return err
			}
			irr := valuation.IRRWithOptions(flows, a.cfg.IRR)
			fmt.Fprintln(cmd.OutOrStdout(), RenderBox("Cash flows", [][2]string{
				{"Months", strconv.Itoa(len(flows))},
				{"IRR", formatIRR(irr)},
				{"NPV", formatAmount(valuation.NPV(flows, rate))},
				{"Break-even", formatMonth(valuation.BreakEvenMonth(flows))},
				{"Payback", formatMonth(valuation.PaybackPeriod(flows))},
			}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0.1, "annual discount rate for NPV")
	return cmd
}

func parseFlows(args []string) ([]float64, error) {
	var flows []float64
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid cash flow %q", field)
			}
			flows = append(flows, v)
		}
	}
	return flows, nil
}
