package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/jchenq/portfolio-desk/internal/api/request"
	"github.com/jchenq/portfolio-desk/internal/model"
)

// ValidateCreateCashFlow validates a manual cash flow entry.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - accountName: Must be non-empty
//   - flowType: Must be a known flow type
//   - amount: Must be non-zero
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateCashFlow(req request.CreateCashFlowRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)

	if strings.TrimSpace(req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}

	if strings.TrimSpace(req.FlowType) == "" {
		errors["flowType"] = "flowType is required"
	} else if !model.ValidFlowType(req.FlowType) {
		errors["flowType"] = fmt.Sprintf("invalid flowType: %s", req.FlowType)
	}

	if req.Amount == 0.0 {
		errors["amount"] = "amount must be non-zero"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateCashFlow validates a cash flow update request.
func ValidateUpdateCashFlow(req request.UpdateCashFlowRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}
	if req.AccountName != nil && strings.TrimSpace(*req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}
	if req.FlowType != nil && !model.ValidFlowType(*req.FlowType) {
		errors["flowType"] = fmt.Sprintf("invalid flowType: %s", *req.FlowType)
	}
	if req.Amount != nil && *req.Amount == 0.0 {
		errors["amount"] = "amount must be non-zero"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
