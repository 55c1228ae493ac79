package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/jchenq/portfolio-desk/internal/api/request"
)

// ValidOptionType contains the allowed option strategy values.
var ValidOptionType = map[string]bool{
	"sell_call": true, "sell_put": true, "buy_call": true, "buy_put": true,
}

// ValidCloseStatus contains the allowed terminal option statuses.
var ValidCloseStatus = map[string]bool{
	"closed": true, "assigned": true, "expired": true,
}

// ValidateOpenOption validates an option open request.
//
// Required fields:
//   - accountName: Must be non-empty
//   - symbol: Must be non-empty
//   - optionType: Must be one of: sell_call, sell_put, buy_call, buy_put
//   - strikePrice: Must be positive
//   - expirationDate, openDate: Must be in YYYY-MM-DD format
//   - premiumPerShare: Must be positive
//   - contracts: Must be positive
//   - openingFee: Must be non-negative
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateOpenOption(req request.OpenOptionRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, req.Symbol)
	validateDate(errors, "expirationDate", req.ExpirationDate)
	validateDate(errors, "openDate", req.OpenDate)

	if strings.TrimSpace(req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}

	if strings.TrimSpace(req.OptionType) == "" {
		errors["optionType"] = "optionType is required"
	} else if !ValidOptionType[req.OptionType] {
		errors["optionType"] = fmt.Sprintf("invalid optionType: %s", req.OptionType)
	}

	if req.StrikePrice <= 0.0 {
		errors["strikePrice"] = "strikePrice must be positive"
	}
	if req.PremiumPerShare <= 0.0 {
		errors["premiumPerShare"] = "premiumPerShare must be positive"
	}
	if req.Contracts <= 0 {
		errors["contracts"] = "contracts must be positive"
	}
	if req.OpeningFee < 0.0 {
		errors["openingFee"] = "openingFee cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCloseOption validates an option close request.
func ValidateCloseOption(req request.CloseOptionRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "closeDate", req.CloseDate)

	if strings.TrimSpace(req.Status) == "" {
		errors["status"] = "status is required"
	} else if !ValidCloseStatus[req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", req.Status)
	}

	if req.ClosePrice != nil && *req.ClosePrice < 0.0 {
		errors["closePricePerShare"] = "closePricePerShare cannot be negative"
	}
	if req.ClosingFee < 0.0 {
		errors["closingFee"] = "closingFee cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateOption validates an option update request.
// All fields are optional, but if provided, they must meet the same constraints as open.
func ValidateUpdateOption(req request.UpdateOptionRequest) error {
	errors := make(map[string]string)

	if req.AccountName != nil && strings.TrimSpace(*req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}
	if req.Symbol != nil && strings.TrimSpace(*req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}
	if req.OptionType != nil {
		if !ValidOptionType[*req.OptionType] {
			errors["optionType"] = fmt.Sprintf("invalid optionType: %s", *req.OptionType)
		}
	}
	if req.ExpirationDate != nil {
		if _, err := time.Parse("2006-01-02", *req.ExpirationDate); err != nil {
			errors["expirationDate"] = err.Error()
		}
	}
	if req.OpenDate != nil {
		if _, err := time.Parse("2006-01-02", *req.OpenDate); err != nil {
			errors["openDate"] = err.Error()
		}
	}
	if req.StrikePrice != nil && *req.StrikePrice <= 0.0 {
		errors["strikePrice"] = "strikePrice must be positive"
	}
	if req.PremiumPerShare != nil && *req.PremiumPerShare <= 0.0 {
		errors["premiumPerShare"] = "premiumPerShare must be positive"
	}
	if req.Contracts != nil && *req.Contracts <= 0 {
		errors["contracts"] = "contracts must be positive"
	}
	if req.OpeningFee != nil && *req.OpeningFee < 0.0 {
		errors["openingFee"] = "openingFee cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
