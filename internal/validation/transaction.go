package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/jchenq/portfolio-desk/internal/api/request"
)

// ValidTransactionSide contains the allowed trade side values.
var ValidTransactionSide = map[string]bool{
	"buy": true, "sell": true,
}

// ValidateCreateTransaction validates a stock trade creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - accountName: Must be non-empty
//   - symbol: Must be non-empty
//   - side: Must be one of: buy, sell
//   - shares: Must be positive
//   - price: Must be positive
//   - commission: Must be non-negative
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)
	validateSymbol(errors, req.Symbol)

	if strings.TrimSpace(req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}

	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if !ValidTransactionSide[req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}

	if req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}

	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if req.Commission < 0.0 {
		errors["commission"] = "commission cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTransaction validates a stock trade update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			errors["date"] = "date is required"
		} else if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}
	if req.AccountName != nil && strings.TrimSpace(*req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}
	if req.Symbol != nil && strings.TrimSpace(*req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}
	if req.Side != nil {
		if strings.TrimSpace(*req.Side) == "" {
			errors["side"] = "side is required"
		} else if !ValidTransactionSide[*req.Side] {
			errors["side"] = fmt.Sprintf("invalid side: %s", *req.Side)
		}
	}
	if req.Shares != nil && *req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}
	if req.Price != nil && *req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}
	if req.Commission != nil && *req.Commission < 0.0 {
		errors["commission"] = "commission cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateSimulateTransaction validates a what-if trade request.
func ValidateSimulateTransaction(req request.SimulateTransactionRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, req.Symbol)

	if strings.TrimSpace(req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}
	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if !ValidTransactionSide[req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}
	if req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}
	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
