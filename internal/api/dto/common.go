package dto

// Envelope is the standard response wrapper: {success, data?, message?} on
// the happy path, {success:false, error, detail?} otherwise.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorEnvelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Detail  map[string]string `json:"detail,omitempty"`
}

func Success(data interface{}, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

func Error(msg string) ErrorEnvelope {
	return ErrorEnvelope{Success: false, Error: msg}
}

func ValidationError(details map[string]string) ErrorEnvelope {
	return ErrorEnvelope{Success: false, Error: "Validation failed", Detail: details}
}
