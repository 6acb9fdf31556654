package main

import (
	"encoding/json"
	"fmt"
	"io"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/valuation"

	"github.com/spf13/cobra"
)

// readBusiness loads a business document from a file, or from stdin when path
// is "-".
func readBusiness(cmd *cobra.Command, path string) (assumption.Parsed[assumption.BusinessAssumptions], error) {
	if path != "-" {
		return assumption.LoadBusinessFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return assumption.Parsed[assumption.BusinessAssumptions]{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return assumption.ParseBusiness(data)
}

func readMarket(cmd *cobra.Command, path string) (assumption.Parsed[assumption.MarketAssumptions], error) {
	if path != "-" {
		return assumption.LoadMarketFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return assumption.Parsed[assumption.MarketAssumptions]{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return assumption.ParseMarket(data)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatIRR(v float64) string {
	if valuation.IsIRRError(v) {
		return "n/a (" + valuation.IRRErrorMessage(v) + ")"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func formatMonth(m int) string {
	if m <= 0 {
		return "not reached"
	}
	return fmt.Sprintf("month %d", m)
}

// printValidation prints findings and returns an error when there are errors.
func printValidation(cmd *cobra.Command, r *assumption.ValidationResult) error {
	out := cmd.OutOrStdout()
	for _, e := range r.Errors {
		fmt.Fprintln(out, FormatError(e))
	}
	for _, w := range r.Warnings {
		fmt.Fprintln(out, FormatWarning(w))
	}
	if !r.IsValid {
		return fmt.Errorf("document has %d error(s)", len(r.Errors))
	}
	if len(r.Warnings) == 0 {
		fmt.Fprintln(out, FormatSuccess("document is valid"))
	}
	return nil
}
