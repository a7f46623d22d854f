package model

// Frequency classifies the cadence of a recurring charge.
type Frequency string

// Known frequencies, from the interval buckets the analyzer recognizes.
// Variable means the charge recurs but not on a cadence close to any bucket.
const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyBimonthly Frequency = "bi-monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyVariable  Frequency = "variable"
)

// RecurringPattern is one detected recurring charge, ready for consumers
// (subscription tracking, quest generation, anomaly alerts). Nothing here is
// persisted by the engine itself.
type RecurringPattern struct {
	CategoryDefinitionID *int64    `json:"category_definition_id,omitempty"`
	PatternKey           string    `json:"pattern_key"`
	DisplayName          string    `json:"display_name"`
	DetectedFrequency    Frequency `json:"detected_frequency"`
	CategoryName         string    `json:"category_name,omitempty"`
	DetectedAmount       float64   `json:"detected_amount"`
	ConsistencyScore     float64   `json:"consistency_score"`
	TotalSpent           float64   `json:"total_spent"`
	AmountStdDev         float64   `json:"amount_stddev"`
	OccurrenceCount      int       `json:"occurrence_count"`
	AmountIsFixed        bool      `json:"amount_is_fixed"`
}
