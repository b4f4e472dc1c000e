package domain

import (
	"errors"
	"fmt"
)

// ErrCorruptLeaderboard indicates the persisted leaderboard could not be
// decoded. Stores must report it rather than silently reset to empty.
var ErrCorruptLeaderboard = errors.New("leaderboard store corrupt")

// DeliveryError wraps any failure while emailing a certificate. It is the one
// error the submission workflow recovers from.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("certificate delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsDeliveryError reports whether err is (or wraps) a DeliveryError.
func IsDeliveryError(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}
