package vb

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes inference failures.
type ErrorCode string

// ErrCodeELBODecreased indicates the lower bound fell between two iterations,
// which means the update equations or the bound are wrong.
const ErrCodeELBODecreased ErrorCode = "ELBO_DECREASED"

// DivergenceError reports a lower bound that decreased between iterations.
type DivergenceError struct {
	Code      ErrorCode
	Iteration int
	Previous  float64
	Current   float64
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%s: lower bound decreased at iteration %d (%.12g -> %.12g)",
		e.Code, e.Iteration, e.Previous, e.Current)
}

// IsDivergence reports whether err wraps a *DivergenceError.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}

func newDivergenceError(iteration int, previous, current float64) *DivergenceError {
	return &DivergenceError{
		Code:      ErrCodeELBODecreased,
		Iteration: iteration,
		Previous:  previous,
		Current:   current,
	}
}
