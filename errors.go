package picset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/picset/internal/arena"
)

var (
	// ErrOutOfRange matches every *ErrIndexOutOfRange.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNoLoader is returned by Add and AddBatch when no loader is configured.
	ErrNoLoader = errors.New("no loader configured")

	// ErrNoWriter is returned by Save when no writer is configured.
	ErrNoWriter = errors.New("no writer configured")

	// ErrNilPhoto is returned by AddPhoto for a nil photo.
	ErrNilPhoto = errors.New("nil photo")

	// ErrFull is returned when the collection reached its WithMaxPhotos cap.
	ErrFull = arena.ErrFull

	// ErrInconsistent is wrapped by every failure reported from Verify.
	ErrInconsistent = errors.New("collection inconsistent")
)

// ErrIndexOutOfRange reports a position outside [0, Len).
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// Is makes errors.Is(err, ErrOutOfRange) hold.
func (e *ErrIndexOutOfRange) Is(target error) bool { return target == ErrOutOfRange }

// ErrOptionType reports an option built for a different sample type than
// the collection.
type ErrOptionType struct {
	Option string
	Want   string
}

func (e *ErrOptionType) Error() string {
	return fmt.Sprintf("option %s: value does not serve %s samples", e.Option, e.Want)
}
