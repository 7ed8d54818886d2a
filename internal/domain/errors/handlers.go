package errors

import "market/internal/errors"

// ErrorInfo is the caller-facing rendering of a failed operation.
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "NOT_FOUND"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Detailed error information (optional)
}

// ToErrorInfo converts err into an ErrorInfo. Errors that carry no AppError
// are reported as INTERNAL_ERROR with the raw text kept in Details.
func ToErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		info := &ErrorInfo{
			Code:    appErr.ErrorCode(),
			Message: appErr.Message(),
		}
		if appErr.Details() != "" {
			info.Details = appErr.Details()
		} else if err.Error() != appErr.Error() {
			info.Details = err.Error()
		}

		return info
	}

	return &ErrorInfo{
		Code:    ErrInternalError.ErrorCode(),
		Message: ErrInternalError.Message(),
		Details: err.Error(),
	}
}
