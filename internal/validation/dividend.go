package validation

import (
	"strings"
	"time"

	"github.com/jchenq/portfolio-desk/internal/api/request"
)

// ValidateCreateDividend validates a dividend record request.
//
// Required fields:
//   - symbol: Must be non-empty
//   - accountName: Must be non-empty
//   - exDividendDate: Must be in YYYY-MM-DD format
//   - dividendPerShare: Must be positive
//   - sharesHeld: Must be positive
//   - taxWithheld: Must be non-negative
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateDividend(req request.CreateDividendRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, req.Symbol)
	validateDate(errors, "exDividendDate", req.ExDividendDate)

	if strings.TrimSpace(req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}

	if req.PaymentDate != "" {
		if _, err := time.Parse("2006-01-02", req.PaymentDate); err != nil {
			errors["paymentDate"] = err.Error()
		}
	}

	if req.DividendPerShare <= 0.0 {
		errors["dividendPerShare"] = "dividendPerShare must be positive"
	}
	if req.SharesHeld <= 0 {
		errors["sharesHeld"] = "sharesHeld must be positive"
	}
	if req.TaxWithheld < 0.0 {
		errors["taxWithheld"] = "taxWithheld cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
