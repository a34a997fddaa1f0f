package local

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned when a value does not fit the device
	// storage budget.
	ErrQuotaExceeded = errors.New("local storage quota exceeded")
)

// Backend is durable key/value storage on the current device. Writes replace
// the whole value or nothing.
type Backend interface {
	// Read returns nil, nil when the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}

func checkQuota(value []byte, max int) error {
	if max > 0 && len(value) > max {
		return ErrQuotaExceeded
	}
	return nil
}
