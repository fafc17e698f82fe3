package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// ValidationError represents a rejected input at the ingestion boundary:
	// unknown symbol or missing required field.
	ValidationError ErrorCode = "validation_error"
	// TransientStoreError represents a connection or timeout failure during a
	// flush cycle. The in-flight batch is discarded, not retried.
	TransientStoreError ErrorCode = "transient_store_error"
	// StaleDataError indicates the current snapshot for a symbol is older than
	// the configured freshness threshold. Treated as "no signal".
	StaleDataError ErrorCode = "stale_data_error"
	// BrokerActionError represents a failed broker open/close call.
	BrokerActionError ErrorCode = "broker_action_error"
	// ReconciliationRequiredError indicates a position whose broker close
	// exhausted its retry budget and needs manual reconciliation.
	ReconciliationRequiredError ErrorCode = "reconciliation_required_error"
)

// CodedError is an error carrying one of the system error codes.
type CodedError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewCodedError creates a CodedError with the given code and message.
func NewCodedError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *CodedError) Unwrap() error {
	return e.Err
}

// WithCause attaches an underlying error.
func (e *CodedError) WithCause(err error) *CodedError {
	e.Err = err
	return e
}

// CodeOf extracts the ErrorCode from err if it is a CodedError anywhere in the
// chain, otherwise returns GeneralInternalServerError.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if coded, ok := err.(*CodedError); ok {
			return coded.Code
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return GeneralInternalServerError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
