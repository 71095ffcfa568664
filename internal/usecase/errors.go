package usecase

import (
	"errors"
	"strings"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION"
	CodeStorage    = "STORAGE"
	CodeParse      = "PARSE"
)

// DomainError is a rejected operation with no side effects.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a failure of the persistence layer or of parsing.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func notFound(what, id string) error {
	return &DomainError{Code: CodeNotFound, Message: what + " " + id + " not found"}
}

func invalid(errs []ValidationError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return &DomainError{Code: CodeValidation, Message: strings.Join(msgs, "; "), Fields: errs}
}

func storageError(msg string, err error) error {
	return &TechnicalError{Code: CodeStorage, Message: msg, Err: err}
}

func parseError(msg string, err error) error {
	return &TechnicalError{Code: CodeParse, Message: msg, Err: err}
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func IsNotFound(err error) bool   { return hasCode(err, CodeNotFound) }
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }
func IsStorage(err error) bool    { return hasCode(err, CodeStorage) }
func IsParse(err error) bool      { return hasCode(err, CodeParse) }

// NewValidationError is for callers outside the engine that reject input
// before it reaches it.
func NewValidationError(errs ...ValidationError) error {
	return invalid(errs)
}
