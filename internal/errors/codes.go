package errors

// ErrorCode represents a standardized error code used throughout the module
type ErrorCode string

// Storage error codes (STORAGE_*)
const (
	StorageReadFailed   ErrorCode = "STORAGE_001"
	StorageWriteFailed  ErrorCode = "STORAGE_002"
	StorageDeleteFailed ErrorCode = "STORAGE_003"
	StorageUnavailable  ErrorCode = "STORAGE_004"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionSaveFailed    ErrorCode = "TRANSACTION_003"
	TransactionDeleteFailed  ErrorCode = "TRANSACTION_004"
	TransactionLoadFailed    ErrorCode = "TRANSACTION_005"
)

// Dashboard error codes (DASHBOARD_*)
const (
	DashboardLoadFailed ErrorCode = "DASHBOARD_001"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidDate   ErrorCode = "VALIDATION_003"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Storage errors
	StorageReadFailed:   "Failed to read from storage",
	StorageWriteFailed:  "Failed to write to storage",
	StorageDeleteFailed: "Failed to delete from storage",
	StorageUnavailable:  "Storage is unavailable",

	// Transaction errors
	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",
	TransactionSaveFailed:    "Failed to save transaction",
	TransactionDeleteFailed:  "Failed to delete transaction",
	TransactionLoadFailed:    "Failed to load transactions",

	// Dashboard errors
	DashboardLoadFailed: "Failed to load spending data",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidDate:   "Invalid date format or range",
}

// GetErrorMessage returns the default message for a given error code.
// If the error code is not found, it returns a generic error message.
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}

// Describe builds the user-facing message a state holder surfaces for a
// failure: the registered message for the code, with the underlying error
// detail appended when present. Raw store errors never reach presentation
// without passing through here.
func Describe(code ErrorCode, err error) string {
	msg := GetErrorMessage(code)
	if err != nil {
		return msg + ": " + err.Error()
	}
	return msg
}
