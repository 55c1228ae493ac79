package validation

import (
	"fmt"
	"strings"

	"github.com/jchenq/portfolio-desk/internal/api/request"
)

// ValidTargetType contains the allowed position target kinds.
var ValidTargetType = map[string]bool{
	"percent": true, "amount": true, "shares": true,
}

// ValidateSetTarget validates a position target upsert request.
// The value field matching the target type must be present: targetPercentage
// for percent targets, targetAmount for amount targets, targetShares for
// share-count targets.
func ValidateSetTarget(req request.SetTargetRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, req.Symbol)

	if strings.TrimSpace(req.AccountName) == "" {
		errors["accountName"] = "accountName is required"
	}

	if strings.TrimSpace(req.TargetType) == "" {
		errors["targetType"] = "targetType is required"
	} else if !ValidTargetType[req.TargetType] {
		errors["targetType"] = fmt.Sprintf("invalid targetType: %s", req.TargetType)
	}

	switch req.TargetType {
	case "percent":
		if req.TargetPercentage == nil {
			errors["targetPercentage"] = "targetPercentage is required for percent targets"
		} else if *req.TargetPercentage <= 0.0 || *req.TargetPercentage > 100.0 {
			errors["targetPercentage"] = "targetPercentage must be between 0 and 100"
		}
	case "amount":
		if req.TargetAmount == nil {
			errors["targetAmount"] = "targetAmount is required for amount targets"
		} else if *req.TargetAmount <= 0.0 {
			errors["targetAmount"] = "targetAmount must be positive"
		}
	case "shares":
		if req.TargetShares == nil {
			errors["targetShares"] = "targetShares is required for share targets"
		} else if *req.TargetShares <= 0 {
			errors["targetShares"] = "targetShares must be positive"
		}
	}

	if req.MaxPercentage != nil && (*req.MaxPercentage <= 0.0 || *req.MaxPercentage > 100.0) {
		errors["maxPercentage"] = "maxPercentage must be between 0 and 100"
	}
	if req.MaxAmount != nil && *req.MaxAmount <= 0.0 {
		errors["maxAmount"] = "maxAmount must be positive"
	}
	if req.MaxShares != nil && *req.MaxShares <= 0 {
		errors["maxShares"] = "maxShares must be positive"
	}
	if req.Priority < 0 || req.Priority > 10 {
		errors["priority"] = "priority must be between 0 and 10"
	}
	if req.RebalanceThreshold < 0.0 {
		errors["rebalanceThreshold"] = "rebalanceThreshold cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
