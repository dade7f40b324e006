package calculator

import "github.com/pkg/errors"

// ErrInvalidParameter is returned when a period or window length is not positive.
var ErrInvalidParameter = errors.New("invalid parameter")

func checkPeriod(name string, period int) error {
	if period <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "%s must be positive, got %d", name, period)
	}
	return nil
}
