package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given name does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrOptionNotFound indicates that an option trade with the given ID does not exist.
	ErrOptionNotFound = errors.New("option trade not found")

	// ErrDividendNotFound indicates that a dividend record with the given ID does not exist.
	ErrDividendNotFound = errors.New("dividend not found")

	// ErrCashFlowNotFound indicates that a cash flow record with the given ID does not exist.
	ErrCashFlowNotFound = errors.New("cash flow not found")

	// ErrAlertNotFound indicates that a price alert with the given ID does not exist.
	ErrAlertNotFound = errors.New("price alert not found")

	// ErrTargetNotFound indicates that a position target with the given ID does not exist.
	ErrTargetNotFound = errors.New("position target not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrOptionAlreadyClosed indicates that a close was attempted on an option
	// trade that already reached a terminal status. The transition to a terminal
	// status happens exactly once.
	ErrOptionAlreadyClosed = errors.New("option trade already closed")

	// ErrInsufficientData indicates that an analysis precondition was not met
	// (too few symbols, too few aligned observations). Callers branch on this
	// and render an explanation rather than a failure.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Validation errors for required parameters
	ErrInvalidAccount   = errors.New("account parameter is required")
	ErrInvalidSymbol    = errors.New("symbol is required")
	ErrInvalidBenchmark = errors.New("benchmark symbol is required")
	ErrInvalidDate      = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Ledger operation errors
	ErrFailedToRetrieveAccounts     = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveOptions      = errors.New("failed to retrieve option trades")
	ErrFailedToRetrieveCashFlows    = errors.New("failed to retrieve cash flows")
	ErrFailedToRetrieveDividends    = errors.New("failed to retrieve dividends")
	ErrFailedToRetrieveTargets      = errors.New("failed to retrieve position targets")
	ErrFailedToRetrieveAlerts       = errors.New("failed to retrieve price alerts")

	// Derivation operation errors
	ErrFailedToComputeSummary     = errors.New("failed to compute stock summary")
	ErrFailedToComputeOverview    = errors.New("failed to compute account overview")
	ErrFailedToComputeStatement   = errors.New("failed to compute cash flow statement")
	ErrFailedToComputeCorrelation = errors.New("failed to compute correlation analysis")
	ErrFailedToComputeAttribution = errors.New("failed to compute attribution analysis")
	ErrFailedToComputeRebalance   = errors.New("failed to compute rebalance plan")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a cash flow references a transaction that does not exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
