package evolution

import "fmt"

// NoViableStrategyError is returned when every variant of a sweep failed to backtest.
type NoViableStrategyError struct {
	Attempted int
	LastErr   error
}

func (e *NoViableStrategyError) Error() string {
	if e.LastErr == nil {
		return fmt.Sprintf("no viable strategy among %d variants", e.Attempted)
	}
	return fmt.Sprintf("no viable strategy among %d variants: %v", e.Attempted, e.LastErr)
}

func (e *NoViableStrategyError) Unwrap() error {
	return e.LastErr
}
