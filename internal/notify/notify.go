// Package notify delivers alert notifications. The default sink is the
// process log; email delivery over SMTP is available when configured.
package notify

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// Notifier delivers a triggered alert to its destination.
type Notifier interface {
	Notify(alert model.PriceAlert, price float64) error
}

// LogNotifier writes triggered alerts to the process log.
type LogNotifier struct{}

// Notify logs the alert with its planned action, if any.
func (LogNotifier) Notify(alert model.PriceAlert, price float64) error {
	if alert.PlannedAction != "" {
		log.Printf("ALERT %s %s %.2f (target %.2f): planned action %s",
			alert.Symbol, alert.AlertType, price, alert.TargetPrice, alert.PlannedAction)
		return nil
	}
	log.Printf("ALERT %s %s %.2f (target %.2f)", alert.Symbol, alert.AlertType, price, alert.TargetPrice)
	return nil
}

// EmailNotifier delivers triggered alerts over SMTP.
type EmailNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notify sends the alert to the address stored on the alert, falling back to
// logging when no address is set.
func (n EmailNotifier) Notify(alert model.PriceAlert, price float64) error {
	if alert.EmailAddress == "" {
		return LogNotifier{}.Notify(alert, price)
	}

	subject := fmt.Sprintf("Price alert: %s %s %.2f", alert.Symbol, alert.AlertType, alert.TargetPrice)
	body := fmt.Sprintf("%s is at %.2f (target %.2f, condition %s).",
		alert.Symbol, price, alert.TargetPrice, alert.AlertType)
	if alert.PlannedAction != "" {
		body += fmt.Sprintf("\nPlanned action: %s", alert.PlannedAction)
		if alert.PlannedShares != nil {
			body += fmt.Sprintf(" (%d shares)", *alert.PlannedShares)
		}
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.From, alert.EmailAddress, subject, body)

	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}
	if err := smtp.SendMail(addr, auth, n.From, []string{alert.EmailAddress}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
