package model

import "time"

// Price alert trigger types.
const (
	AlertAbove = "above"
	AlertBelow = "below"
	AlertCross = "cross"
)

// Price alert statuses.
const (
	AlertStatusActive    = "active"
	AlertStatusTriggered = "triggered"
	AlertStatusDisabled  = "disabled"
)

// Alert notification methods.
const (
	NotifyLog   = "log"
	NotifyEmail = "email"
)

// CrossTolerance is the relative distance within which a "cross" alert
// fires: |price - target| / target < CrossTolerance.
const CrossTolerance = 0.002

// PriceAlert is a standing watch on a symbol's price with an optional
// planned action to execute when it fires.
type PriceAlert struct {
	ID                 string     `json:"id"`
	Symbol             string     `json:"symbol"`
	AlertType          string     `json:"alertType"`
	TargetPrice        float64    `json:"targetPrice"`
	CurrentPrice       *float64   `json:"currentPrice,omitempty"`
	NotificationMethod string     `json:"notificationMethod"`
	EmailAddress       string     `json:"emailAddress,omitempty"`
	PlannedAction      string     `json:"plannedAction,omitempty"`
	PlannedShares      *int       `json:"plannedShares,omitempty"`
	PlannedNotes       string     `json:"plannedNotes,omitempty"`
	Status             string     `json:"status"`
	TriggeredAt        *time.Time `json:"triggeredAt,omitempty"`
	TriggeredPrice     *float64   `json:"triggeredPrice,omitempty"`
	CreatedAt          time.Time  `json:"createdAt,omitempty"`
}

// ValidAlertType reports whether t is a recognised alert type.
func ValidAlertType(t string) bool {
	return t == AlertAbove || t == AlertBelow || t == AlertCross
}

// ShouldTrigger evaluates the alert condition against a live price.
func (a PriceAlert) ShouldTrigger(price float64) bool {
	switch a.AlertType {
	case AlertAbove:
		return price >= a.TargetPrice
	case AlertBelow:
		return price <= a.TargetPrice
	case AlertCross:
		if a.TargetPrice == 0 {
			return false
		}
		diff := price - a.TargetPrice
		if diff < 0 {
			diff = -diff
		}
		return diff/a.TargetPrice < CrossTolerance
	}
	return false
}

// MonitorInfo reports the state of the background alert monitor.
// MonitoredSymbols counts the union of alert symbols and held positions,
// which is what the dynamic interval budgets for.
type MonitorInfo struct {
	Running          bool      `json:"running"`
	ActiveAlerts     int       `json:"activeAlerts"`
	MonitoredSymbols int       `json:"monitoredSymbols"`
	IntervalSeconds  int       `json:"intervalSeconds"`
	LastCheck        time.Time `json:"lastCheck,omitempty"`
	ChecksCompleted  int64     `json:"checksCompleted"`
	AlertsTriggered  int64     `json:"alertsTriggered"`
}
