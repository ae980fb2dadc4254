package session

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned by Deposit when the player holds no
// coins. It is an expected condition, not a defect.
var ErrInsufficientFunds = errors.New("session: no coins to deposit")

// CorruptBlobError reports a saved blob that was present but unreadable.
// The structure it fed is reset to empty.
type CorruptBlobError struct {
	Blob string
	Err  error
}

func (e *CorruptBlobError) Error() string {
	return fmt.Sprintf("session: corrupt %s blob: %v", e.Blob, e.Err)
}

func (e *CorruptBlobError) Unwrap() error {
	return e.Err
}
