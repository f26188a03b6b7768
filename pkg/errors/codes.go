package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_012"
	ErrCodeExternalService    ErrorCode = "COMMON_013"
)

// Risk assessment error codes.
const (
	ErrCodeAssessmentFailed     ErrorCode = "RISK_001"
	ErrCodeSupplierNotFound     ErrorCode = "RISK_002"
	ErrCodeSnapshotInvalid      ErrorCode = "RISK_003"
	ErrCodeBatchPartiallyFailed ErrorCode = "RISK_004"
)

// Prediction error codes.
const (
	ErrCodePredictionUnavailable ErrorCode = "PRED_001"
	ErrCodePredictionParseFailed ErrorCode = "PRED_002"
	ErrCodePredictionTimeout     ErrorCode = "PRED_003"
	ErrCodeHorizonInvalid        ErrorCode = "PRED_004"
)

// Recommendation error codes.
const (
	ErrCodeCriteriaInvalid ErrorCode = "REC_001"
	ErrCodeNoCandidates    ErrorCode = "REC_002"
)

// Sentinel codes used by GetCode.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeAssessmentFailed:     http.StatusInternalServerError,
	ErrCodeSupplierNotFound:     http.StatusNotFound,
	ErrCodeSnapshotInvalid:      http.StatusBadRequest,
	ErrCodeBatchPartiallyFailed: http.StatusInternalServerError,

	ErrCodePredictionUnavailable: http.StatusServiceUnavailable,
	ErrCodePredictionParseFailed: http.StatusBadGateway,
	ErrCodePredictionTimeout:     http.StatusGatewayTimeout,
	ErrCodeHorizonInvalid:        http.StatusBadRequest,

	ErrCodeCriteriaInvalid: http.StatusBadRequest,
	ErrCodeNoCandidates:    http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeAssessmentFailed:     "risk assessment failed",
	ErrCodeSupplierNotFound:     "supplier not found",
	ErrCodeSnapshotInvalid:      "invalid supplier snapshot",
	ErrCodeBatchPartiallyFailed: "batch assessment partially failed",

	ErrCodePredictionUnavailable: "prediction service unavailable",
	ErrCodePredictionParseFailed: "failed to parse prediction response",
	ErrCodePredictionTimeout:     "prediction service timed out",
	ErrCodeHorizonInvalid:        "invalid prediction horizon",

	ErrCodeCriteriaInvalid: "invalid recommendation criteria",
	ErrCodeNoCandidates:    "no eligible candidate suppliers",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
