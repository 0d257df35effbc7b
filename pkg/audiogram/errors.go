package audiogram

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidEar        = errors.New("invalid ear")
	ErrInvalidModality   = errors.New("invalid modality")
	ErrAmbiguousEar      = errors.New("ambiguous ear")
	ErrAmbiguousModality = errors.New("ambiguous modality")
	ErrNoSuccessor       = errors.New("no successor response")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// PartitionError is returned when a collection is asked for the single ear
// or modality it represents but is empty or mixes several values.
type PartitionError struct {
	Dimension string   // "ear" or "modality"
	Found     []string // distinct values present, in first-seen order
}

func (e *PartitionError) Error() string {
	if len(e.Found) == 0 {
		return fmt.Sprintf("ambiguous %s: collection is empty", e.Dimension)
	}
	return fmt.Sprintf("ambiguous %s: collection contains %s", e.Dimension, strings.Join(e.Found, ", "))
}

// Is lets errors.Is match the per-dimension sentinels
func (e *PartitionError) Is(target error) bool {
	switch target {
	case ErrAmbiguousEar:
		return e.Dimension == "ear"
	case ErrAmbiguousModality:
		return e.Dimension == "modality"
	}
	return false
}

// IndexError is returned for an index outside the collection. Successor is
// set when the lookup was an adjacency query, where the last index is also
// out of range.
type IndexError struct {
	Index     int
	Len       int
	Successor bool
}

func (e *IndexError) Error() string {
	if e.Successor {
		return fmt.Sprintf("index %d has no successor in collection of length %d", e.Index, e.Len)
	}
	return fmt.Sprintf("index %d out of range for collection of length %d", e.Index, e.Len)
}

// Is matches ErrIndexOutOfRange for every IndexError and ErrNoSuccessor for
// adjacency lookups
func (e *IndexError) Is(target error) bool {
	switch target {
	case ErrIndexOutOfRange:
		return true
	case ErrNoSuccessor:
		return e.Successor
	}
	return false
}
