package model

// WeeklyBaselineStats summarizes a category's per-week spend series over an
// observation window. Downstream quest and budget logic uses the shape flags
// to decide whether a category is a sensible target for a savings challenge.
type WeeklyBaselineStats struct {
	BaselineWeeklyMedian float64 `json:"baselineWeeklyMedian"`
	Mean                 float64 `json:"mean"`
	StdDev               float64 `json:"stdDev"`
	MedianRelativeSpread float64 `json:"medianRelativeSpread"`
	WeeksWithSpend       int     `json:"weeksWithSpend"`
	IsStable             bool    `json:"isStable"`
	IsSporadic           bool    `json:"isSporadic"`
}
