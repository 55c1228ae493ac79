package request

type CreateAlertRequest struct {
	Symbol             string  `json:"symbol"`
	AlertType          string  `json:"alertType"`
	TargetPrice        float64 `json:"targetPrice"`
	NotificationMethod string  `json:"notificationMethod,omitempty"`
	EmailAddress       string  `json:"emailAddress,omitempty"`
	PlannedAction      string  `json:"plannedAction,omitempty"`
	PlannedShares      *int    `json:"plannedShares,omitempty"`
	PlannedNotes       string  `json:"plannedNotes,omitempty"`
}

type SetAlertStatusRequest struct {
	Status string `json:"status"`
}
