package validate

import "business_planner/pkg/core/projection"

// CommonSize holds one plan year's line items as a percent of its revenue.
// Costs keep their negative sign.
type CommonSize struct {
	Year              int     `json:"year"`
	Revenue           float64 `json:"revenue"`
	COGSPercent       float64 `json:"cogsPercent"`
	GrossMargin       float64 `json:"grossMargin"`
	SalesMarketingPct float64 `json:"salesMarketingPercent"`
	RDPercent         float64 `json:"rdPercent"`
	GAPercent         float64 `json:"gaPercent"`
	CapexPercent      float64 `json:"capexPercent"`
	NetMargin         float64 `json:"netMargin"`
}

// CommonSizeByYear computes common-size figures per plan year. Years without
// revenue are skipped.
func CommonSizeByYear(rows []projection.MonthlyRow) []CommonSize {
	var out []CommonSize
	var cur CommonSize
	var sums [7]float64

	flush := func() {
		rev := cur.Revenue
		if rev == 0 {
			return
		}
		cur.COGSPercent = sums[0] / rev * 100
		cur.GrossMargin = sums[1] / rev * 100
		cur.SalesMarketingPct = sums[2] / rev * 100
		cur.RDPercent = sums[3] / rev * 100
		cur.GAPercent = sums[4] / rev * 100
		cur.CapexPercent = sums[5] / rev * 100
		cur.NetMargin = sums[6] / rev * 100
		out = append(out, cur)
	}

	for _, r := range rows {
		year := (r.Month-1)/12 + 1
		if year != cur.Year {
			if cur.Year != 0 {
				flush()
			}
			cur = CommonSize{Year: year}
			sums = [7]float64{}
		}
		cur.Revenue += r.Revenue
		sums[0] += r.COGS
		sums[1] += r.GrossProfit
		sums[2] += r.SalesMarketing
		sums[3] += r.RD
		sums[4] += r.GA
		sums[5] += r.Capex
		sums[6] += r.NetCashFlow
	}
	if cur.Year != 0 {
		flush()
	}
	return out
}
