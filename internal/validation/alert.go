package validation

import (
	"fmt"
	"strings"

	"github.com/jchenq/portfolio-desk/internal/api/request"
)

// ValidAlertType contains the allowed price alert trigger kinds.
var ValidAlertType = map[string]bool{
	"above": true, "below": true, "cross": true,
}

// ValidNotificationMethod contains the allowed alert delivery channels.
var ValidNotificationMethod = map[string]bool{
	"log": true, "email": true,
}

// ValidAlertStatus contains the statuses a caller may set directly.
// Triggered is reserved for the monitor.
var ValidAlertStatus = map[string]bool{
	"active": true, "disabled": true,
}

// ValidateCreateAlert validates a price alert creation request.
//
// Required fields:
//   - symbol: Must be non-empty
//   - alertType: Must be one of: above, below, cross
//   - targetPrice: Must be positive
//   - emailAddress: Required when notificationMethod is email
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateAlert(req request.CreateAlertRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, req.Symbol)

	if strings.TrimSpace(req.AlertType) == "" {
		errors["alertType"] = "alertType is required"
	} else if !ValidAlertType[req.AlertType] {
		errors["alertType"] = fmt.Sprintf("invalid alertType: %s", req.AlertType)
	}

	if req.TargetPrice <= 0.0 {
		errors["targetPrice"] = "targetPrice must be positive"
	}

	if req.NotificationMethod != "" && !ValidNotificationMethod[req.NotificationMethod] {
		errors["notificationMethod"] = fmt.Sprintf("invalid notificationMethod: %s", req.NotificationMethod)
	}
	if req.NotificationMethod == "email" && strings.TrimSpace(req.EmailAddress) == "" {
		errors["emailAddress"] = "emailAddress is required for email notifications"
	}

	if req.PlannedShares != nil && *req.PlannedShares <= 0 {
		errors["plannedShares"] = "plannedShares must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateSetAlertStatus validates an alert status change request.
func ValidateSetAlertStatus(req request.SetAlertStatusRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Status) == "" {
		errors["status"] = "status is required"
	} else if !ValidAlertStatus[req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", req.Status)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
