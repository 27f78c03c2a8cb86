// Package domain defines the key-value setting model used by the host application
// for small pieces of durable state.
package domain

import (
	"time"

	"github.com/allisson/posrecovery/internal/errors"
)

// ErrSettingNotFound indicates no value is stored under the requested key.
var ErrSettingNotFound = errors.Wrap(errors.ErrNotFound, "setting not found")

// Setting is a single durable key-value pair.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
