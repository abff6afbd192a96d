package desync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected marks an outbound event dropped while offline. Expected steady state.
	ErrNotConnected = errors.New("not connected")

	// ErrDuplicateState marks state that already existed and was overwritten.
	ErrDuplicateState = errors.New("duplicate state")

	// ErrUnresolved is matched by every *ResolutionError.
	ErrUnresolved = errors.New("unresolved identifier")
)

// ResolutionError reports an identifier that has no local counterpart.
type ResolutionError struct {
	What string
	Id   any
}

func Unresolved(what string, id any) *ResolutionError {
	return &ResolutionError{What: what, Id: id}
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve %s %v", e.What, e.Id)
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolved
}

// Kind classifies an error into the taxonomy names stored in the ledger.
type Kind string

const (
	KindNone       Kind = ""
	KindResolution Kind = "resolution"
	KindNotConn    Kind = "not_connected"
	KindDuplicate  Kind = "duplicate_state"
	KindOther      Kind = "other"
)

func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnresolved):
		return KindResolution
	case errors.Is(err, ErrNotConnected):
		return KindNotConn
	case errors.Is(err, ErrDuplicateState):
		return KindDuplicate
	default:
		return KindOther
	}
}
