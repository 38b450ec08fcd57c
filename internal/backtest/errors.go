package backtest

import (
	"errors"
	"fmt"
)

var ErrMalformedBars = errors.New("malformed price bars")

// BarError points at the first bar that breaks the ordering or price rules.
type BarError struct {
	Index  int
	Reason string
}

func (e *BarError) Error() string {
	return fmt.Sprintf("%s: bar %d: %s", ErrMalformedBars, e.Index, e.Reason)
}

func (e *BarError) Unwrap() error {
	return ErrMalformedBars
}
