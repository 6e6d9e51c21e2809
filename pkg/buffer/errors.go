package buffer

import (
	"errors"
	"fmt"

	"github.com/ardougne/runebuf/internal/core/octet"
)

var (
	// ErrMode is matched by every *ModeError.
	ErrMode = errors.New("buffer: wrong access mode")
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("buffer: invalid field configuration")
	// ErrOutOfBounds is matched by every *BoundsError.
	ErrOutOfBounds = octet.ErrOutOfBounds
)

// BoundsError is returned when a read runs past the available data or an
// absolute index falls outside of the backing storage.
type BoundsError = octet.BoundsError

// ModeError is returned when an operation is attempted in the wrong access
// mode, or a mode switch targets the mode that is already active.
type ModeError struct {
	Op   string
	Want AccessMode
	Have AccessMode
}

func (e *ModeError) Error() string {
	if e.Want == e.Have {
		return fmt.Sprintf("buffer: %s: already in %s mode", e.Op, e.Have)
	}
	return fmt.Sprintf("buffer: %s: requires %s mode, currently in %s mode", e.Op, e.Want, e.Have)
}

func (e *ModeError) Is(target error) bool { return target == ErrMode }

// ConfigError is returned for illegal field descriptors: middle orders on
// anything but a transformed-free int, unsigned longs, bit widths outside of
// [1, 32], unknown tags, and values a variable-length encoding cannot hold.
type ConfigError struct {
	Op     string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("buffer: %s: %s", e.Op, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
