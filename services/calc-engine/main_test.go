package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"business_planner/pkg/core/config"
	"business_planner/pkg/core/valuation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savingsDoc = `{
  "periods": 12,
  "business_model": "cost_savings",
  "cost_savings": {
    "baseline_costs": [
      {"id": "manual", "label": "Manual processing", "current_monthly_cost": 10000, "savings_potential_pct": 30}
    ]
  },
  "financial": {"discount_rate": 0.1, "initial_investment": 6000}
}`

func TestRun_Metrics(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(config.Default(), request{Mode: "metrics", Payload: []byte(savingsDoc)}, &out))

	var m valuation.CalculatedMetrics
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, 36000.0, m.TotalRevenue)
	assert.Nil(t, m.MonthlyData)
}

func TestRun_Project(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(config.Default(), request{Mode: "project", Payload: []byte(savingsDoc)}, &out))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 12)
	assert.Equal(t, 3000.0, rows[0]["costSavings"])
}

func TestRun_IRR(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(config.Default(), request{Mode: "irr", Payload: []byte(`[]`)}, &out))

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, valuation.IRRNoData, res["irr"])
	assert.Equal(t, "no cash flow data", res["irrStatus"])

	assert.Error(t, run(config.Default(), request{Mode: "irr", Payload: []byte(`{"flows": 1}`)}, &out))
}

func TestRun_UnknownMode(t *testing.T) {
	var out bytes.Buffer
	err := run(config.Default(), request{Mode: "check", Payload: []byte(savingsDoc)}, &out)
	assert.ErrorContains(t, err, "unknown mode")
}

func TestRun_MarketValidate(t *testing.T) {
	var out bytes.Buffer
	doc := `{"market_sizing": {"total_addressable_market": {"base_value": 0}}}`
	require.NoError(t, run(config.Default(), request{Mode: "market-validate", Payload: []byte(doc)}, &out))

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, false, res["isValid"])
}

func TestRun_Validate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(config.Default(), request{Mode: "validate", Payload: []byte(savingsDoc)}, &out))

	var res struct {
		IsValid bool `json:"isValid"`
		Linkage struct {
			Months    int  `json:"months"`
			AllPassed bool `json:"all_passed"`
		} `json:"linkage"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.True(t, res.IsValid)
	assert.Equal(t, 12, res.Linkage.Months)
	assert.True(t, res.Linkage.AllPassed)
}
