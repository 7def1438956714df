package errors

import "net/http"

// Envelope is the body written for any request that ends in an error.
//
//	{"success": false, "err": "mongo: no reachable servers"}
//	{"success": false, "err": {"code": "INVALID_INPUT", "message": "...", "retryable": false}}
type Envelope struct {
	Success bool `json:"success"`
	Err     any  `json:"err"`
}

// ErrorBody is the structured form of an AppError inside an Envelope.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to its client-facing body.
func (e *AppError) ToResponse() ErrorBody {
	return ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}
}

// ToEnvelope maps err to an HTTP status and envelope. AppErrors keep their own
// status and structured body; any other error is a 500 carrying its message.
func ToEnvelope(err error) (int, Envelope) {
	if appErr, ok := AsAppError(err); ok {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, Envelope{Success: false, Err: appErr.ToResponse()}
	}
	var msg any
	if err != nil {
		msg = err.Error()
	}
	return http.StatusInternalServerError, Envelope{Success: false, Err: msg}
}
