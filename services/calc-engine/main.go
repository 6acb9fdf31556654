package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/config"
	"business_planner/pkg/core/market"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/validate"
	"business_planner/pkg/core/valuation"
)

// request is everything one invocation needs besides the document.
type request struct {
	Mode    string
	Payload []byte
	Months  int     // market mode
	Price   float64 // market mode
}

func main() {
	mode := flag.String("mode", "metrics", "Mode: project, metrics, market, validate, market-validate or irr")
	dataStr := flag.String("data", "", "JSON data payload")
	file := flag.String("file", "", "Read the payload from a file instead of -data")
	cfgPath := flag.String("config", config.DefaultPath, "Engine config file")
	months := flag.Int("months", 60, "Months to project in market mode")
	price := flag.Float64("price", 0, "Average unit price in market mode")
	flag.Parse()

	payload := []byte(*dataStr)
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", *file, err)
			os.Exit(1)
		}
		payload = data
	}
	if len(payload) == 0 {
		fmt.Println("Error: No data provided")
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	req := request{Mode: *mode, Payload: payload, Months: *months, Price: *price}
	if err := run(cfg, req, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run computes the requested result and writes it to out as JSON.
func run(cfg config.EngineConfig, req request, out io.Writer) error {
	engine := projection.NewEngine(cfg.Projection)

	var result interface{}
	switch req.Mode {
	case "project", "metrics", "validate":
		p, err := assumption.ParseBusiness(req.Payload)
		if err != nil {
			return err
		}
		switch req.Mode {
		case "project":
			result = engine.MonthlyData(p.Doc)
		case "metrics":
			m := valuation.Evaluate(engine, p.Doc, cfg.IRR)
			m.MonthlyData = nil
			result = m
		default:
			result = validate.Document(engine, p.Doc, cfg.IRR)
		}

	case "market", "market-validate":
		p, err := assumption.ParseMarket(req.Payload)
		if err != nil {
			return err
		}
		if req.Mode == "market-validate" {
			result = market.Validate(p.Doc)
			break
		}
		result = struct {
			Score   market.OpportunityScore `json:"score"`
			Records []market.PeriodRecord   `json:"records"`
		}{market.Score(p.Doc), market.Project(p.Doc, engine.Config().Horizon(req.Months), req.Price)}

	case "irr":
		var flows []float64
		if err := json.Unmarshal(req.Payload, &flows); err != nil {
			return fmt.Errorf("irr mode expects a JSON array of monthly cash flows: %w", err)
		}
		irr := valuation.IRRWithOptions(flows, cfg.IRR)
		result = map[string]interface{}{
			"irr":            irr,
			"irrStatus":      valuation.IRRErrorMessage(irr),
			"breakEvenMonth": valuation.BreakEvenMonth(flows),
			"paybackPeriod":  valuation.PaybackPeriod(flows),
		}

	default:
		return fmt.Errorf("unknown mode: %s", req.Mode)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
