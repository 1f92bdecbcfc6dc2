package rpc

// Envelope is the uniform result wrapper returned by every dispatched call.
// OK discriminates: success carries Data, failure carries Error and an
// optional Message with extra detail. Callers never see a raw error or
// stack trace.
type Envelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success wraps an operation payload.
func Success(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

// Failure wraps an error string.
func Failure(errText string) Envelope {
	return Envelope{OK: false, Error: errText}
}

// FailureWithMessage wraps an error string plus supporting detail.
func FailureWithMessage(errText, message string) Envelope {
	return Envelope{OK: false, Error: errText, Message: message}
}
