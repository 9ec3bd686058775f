package config

import (
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Configuration error codes (E001-E009).
const (
	ErrCodeReadFailed  = "E001" // file could not be read
	ErrCodeUnsupported = "E002" // unknown file extension
	ErrCodeParseFailed = "E003" // CUE or YAML syntax error
	ErrCodeInvalid     = "E004" // schema violation
)

// Error is a configuration error with an optional source position.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the 1-based source line, or 0 when unknown.
func (e *Error) Line() int {
	if !e.Pos.IsValid() {
		return 0
	}
	return e.Pos.Line()
}

// fromCUE splits a CUE error into one *Error per underlying problem.
func fromCUE(code string, err error) []*Error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []*Error{{Code: code, Message: err.Error()}}
	}
	out := make([]*Error, 0, len(errs))
	for _, e := range errs {
		ce := &Error{Code: code, Message: e.Error()}
		if positions := cueerrors.Positions(e); len(positions) > 0 {
			ce.Pos = positions[0]
		}
		out = append(out, ce)
	}
	return out
}
