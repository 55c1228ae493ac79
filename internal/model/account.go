package model

import "time"

// Account represents a capital pool with reserve and position-band settings.
// Every ledger entity belongs to exactly one account by name.
type Account struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	TotalCapital        float64   `json:"totalCapital"`
	CashReserve         float64   `json:"cashReserve"`
	ConditionalReserve  float64   `json:"conditionalReserve"`
	TargetPositionMin   float64   `json:"targetPositionMin"`
	TargetPositionMax   float64   `json:"targetPositionMax"`
	CreatedAt           time.Time `json:"createdAt,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty"`
}
