package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jchenq/portfolio-desk/internal/model"
)

// CreateAccount inserts a trading account and returns its ID.
func CreateAccount(t *testing.T, db *sql.DB, name string, totalCapital float64) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO account (id, name, total_capital, cash_reserve, conditional_reserve, target_position_min, target_position_max)
		VALUES (?, ?, ?, 0, 0, 0, 100)`,
		id, name, totalCapital,
	)
	if err != nil {
		t.Fatalf("Failed to insert account: %v", err)
	}
	return id
}

// InsertTransaction inserts a stock trade row directly, bypassing the
// service layer so tests control exactly which cash flows exist. Returns
// the trade with its generated ID.
func InsertTransaction(t *testing.T, db *sql.DB, tx model.Transaction) model.Transaction {
	t.Helper()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	_, err := db.Exec(`
		INSERT INTO stock_transaction (id, date, account_name, symbol, side, price, shares, commission, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.Format("2006-01-02"), tx.AccountName, tx.Symbol, tx.Side,
		tx.Price, tx.Shares, tx.Commission, tx.Notes,
	)
	if err != nil {
		t.Fatalf("Failed to insert transaction: %v", err)
	}
	return tx
}

// InsertOption inserts an option trade row directly. Returns the trade with
// its generated ID. Status defaults to open.
func InsertOption(t *testing.T, db *sql.DB, o model.OptionTrade) model.OptionTrade {
	t.Helper()

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = model.OptionStatusOpen
	}
	var closeDate interface{}
	if o.CloseDate != nil {
		closeDate = o.CloseDate.Format("2006-01-02")
	}
	var closePrice interface{}
	if o.ClosePricePerShare != nil {
		closePrice = *o.ClosePricePerShare
	}
	_, err := db.Exec(`
		INSERT INTO option_trade (id, account_name, symbol, option_type, strike_price, expiration_date,
			premium_per_share, contracts, open_date, close_date, close_price_per_share,
			opening_fee, closing_fee, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.AccountName, o.Symbol, o.OptionType, o.StrikePrice, o.ExpirationDate.Format("2006-01-02"),
		o.PremiumPerShare, o.Contracts, o.OpenDate.Format("2006-01-02"), closeDate, closePrice,
		o.OpeningFee, o.ClosingFee, o.Status, o.Notes,
	)
	if err != nil {
		t.Fatalf("Failed to insert option trade: %v", err)
	}
	return o
}

// InsertCashFlow inserts a cash flow row directly. Returns the flow with
// its generated ID.
func InsertCashFlow(t *testing.T, db *sql.DB, c model.CashFlow) model.CashFlow {
	t.Helper()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := db.Exec(`
		INSERT INTO cash_flow (id, date, account_name, flow_type, amount, symbol,
			related_transaction_id, related_option_id, is_realized, description, notes, auto_generated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Date.Format("2006-01-02"), c.AccountName, c.FlowType, c.Amount, c.Symbol,
		c.RelatedTransactionID, c.RelatedOptionID, c.IsRealized, c.Description, c.Notes, c.AutoGenerated,
	)
	if err != nil {
		t.Fatalf("Failed to insert cash flow: %v", err)
	}
	return c
}

// InsertAlert inserts a price alert row directly. Returns the alert with
// its generated ID. Status defaults to active and the notification method
// to log.
func InsertAlert(t *testing.T, db *sql.DB, a model.PriceAlert) model.PriceAlert {
	t.Helper()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = model.AlertStatusActive
	}
	if a.NotificationMethod == "" {
		a.NotificationMethod = model.NotifyLog
	}
	_, err := db.Exec(`
		INSERT INTO price_alert (id, symbol, alert_type, target_price, notification_method,
			email_address, planned_action, planned_shares, planned_notes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Symbol, a.AlertType, a.TargetPrice, a.NotificationMethod,
		a.EmailAddress, a.PlannedAction, a.PlannedShares, a.PlannedNotes, a.Status,
	)
	if err != nil {
		t.Fatalf("Failed to insert price alert: %v", err)
	}
	return a
}

// InsertDailyReturns stores a daily return series for a symbol starting at
// start, one point per weekday-agnostic calendar day. The stored close
// prices are synthesized from the returns.
func InsertDailyReturns(t *testing.T, db *sql.DB, symbol string, start time.Time, returns []float64) {
	t.Helper()

	price := 100.0
	for i, r := range returns {
		price *= 1 + r
		_, err := db.Exec(`
			INSERT INTO stock_price_history (id, symbol, price_date, close_price, daily_return)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), symbol, start.AddDate(0, 0, i).Format("2006-01-02"), price, r,
		)
		if err != nil {
			t.Fatalf("Failed to insert price history: %v", err)
		}
	}
}

// InsertBenchmarkReturns stores a benchmark daily return series, mirroring
// InsertDailyReturns.
func InsertBenchmarkReturns(t *testing.T, db *sql.DB, symbol string, start time.Time, returns []float64) {
	t.Helper()

	price := 100.0
	for i, r := range returns {
		price *= 1 + r
		_, err := db.Exec(`
			INSERT INTO benchmark_price (id, symbol, price_date, close_price, daily_return)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), symbol, start.AddDate(0, 0, i).Format("2006-01-02"), price, r,
		)
		if err != nil {
			t.Fatalf("Failed to insert benchmark price: %v", err)
		}
	}
}
