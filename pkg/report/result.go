package report

import "encoding/json"

// Status tells which of the three result shapes a Result serializes to.
type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
	StatusError Status = "error"
)

// ErrorRecord is the single element returned when the document could not be loaded.
type ErrorRecord struct {
	Error string `json:"Error"`
}

// MessageRecord is the single element returned when nothing qualified.
type MessageRecord struct {
	Message string `json:"Message"`
}

// Outcome is what transports need from a ranking without knowing its row type.
type Outcome interface {
	json.Marshaler
	Status() Status
	Fingerprint() string
}

// Result is the outcome of one ranking call. It always serializes to a JSON
// array: the ranked rows, or one MessageRecord, or one ErrorRecord.
type Result[T any] struct {
	Records []T
	Message string
	Err     string
	// DocumentFingerprint is empty when the document never loaded.
	DocumentFingerprint string
}

// Status reports the shape the result serializes to.
func (r Result[T]) Status() Status {
	switch {
	case r.Err != "":
		return StatusError
	case len(r.Records) == 0:
		return StatusEmpty
	default:
		return StatusOK
	}
}

// Fingerprint returns the hex fingerprint of the analysed document.
func (r Result[T]) Fingerprint() string {
	return r.DocumentFingerprint
}

// MarshalJSON implements json.Marshaler.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	switch r.Status() {
	case StatusError:
		return json.Marshal([]ErrorRecord{{Error: r.Err}})
	case StatusEmpty:
		return json.Marshal([]MessageRecord{{Message: r.Message}})
	default:
		return json.Marshal(r.Records)
	}
}
