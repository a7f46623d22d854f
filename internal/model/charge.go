// Package model defines the core domain types shared across the application.
package model

import "time"

// CategoryTypeCreditCardRepayment marks charges that repay a credit card
// balance on the paired bank account. Counting these alongside the card's own
// expense rows would double-count the spend.
const CategoryTypeCreditCardRepayment = "credit_card_repayment"

// RawCharge is a charge record as the data store returns it. Field shapes are
// heterogeneous at this boundary: the display text may arrive in Name or
// Vendor, and the monetary value in Amount or Price. Precedence is resolved
// once, in the grouper, so everything downstream sees a single strict shape.
type RawCharge struct {
	Amount               *float64
	Price                *float64
	CategoryDefinitionID *int64
	Name                 string
	Vendor               string
	Date                 string // as stored; parsed by the grouper
	Status               string
	CategoryName         string
	CategoryType         string
	ID                   int64
}

// Candidate is the strict internal shape derived from a valid RawCharge.
// Candidates exist only for the duration of a single detection call.
type Candidate struct {
	Date         time.Time
	CategoryID   *int64
	PatternKey   string
	DisplayName  string
	CategoryName string
	Amount       float64
}
