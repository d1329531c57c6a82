// Package service implements the business operations over the repositories,
// the cache store and the event publisher. Every operation returns a uniform
// success/failure envelope; failures carry human-readable messages and never
// leak internal identifiers or stack detail.
package service

// FailureKind classifies a failed Result so the HTTP layer can choose a
// status code. It is not serialized.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureValidation
	FailureUnauthorized
	FailureNotFound
	FailureConflict
	FailureInternal
)

// Result is the envelope returned by every service operation. Data is only
// present on success.
type Result[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Data    *T       `json:"data,omitempty"`

	Kind FailureKind `json:"-"`
}

// Status is a Result that carries no payload.
type Status = Result[struct{}]

func OK[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: &data}
}

func OKStatus(message string) Status {
	return Status{Success: true, Message: message}
}

func Fail[T any](kind FailureKind, message string, errs ...string) Result[T] {
	return Result[T]{Message: message, Errors: errs, Kind: kind}
}

func FailStatus(kind FailureKind, message string, errs ...string) Status {
	return Status{Message: message, Errors: errs, Kind: kind}
}
