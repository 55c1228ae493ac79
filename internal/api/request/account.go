package request

type UpdateAccountRequest struct {
	TotalCapital       *float64 `json:"totalCapital,omitempty"`
	CashReserve        *float64 `json:"cashReserve,omitempty"`
	ConditionalReserve *float64 `json:"conditionalReserve,omitempty"`
	TargetPositionMin  *float64 `json:"targetPositionMin,omitempty"`
	TargetPositionMax  *float64 `json:"targetPositionMax,omitempty"`
}

type CreateAccountRequest struct {
	Name               string  `json:"name"`
	TotalCapital       float64 `json:"totalCapital"`
	CashReserve        float64 `json:"cashReserve"`
	ConditionalReserve float64 `json:"conditionalReserve"`
	TargetPositionMin  float64 `json:"targetPositionMin"`
	TargetPositionMax  float64 `json:"targetPositionMax"`
}
