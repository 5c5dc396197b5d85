package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrScheduleSkip is returned when a trigger falls outside every sync window.
	ErrScheduleSkip = errors.New("outside sync window")

	ErrAccountNotFound = errors.New("account not found")
	ErrAttemptFinished = errors.New("sync attempt already finished")
	ErrInvalidSyncType = errors.New("invalid sync type")
	ErrInvalidAction   = errors.New("invalid sync action")
	ErrInvalidHandle   = errors.New("invalid account handle")
)

// TransportError reports an unreachable external API, a non-2xx response or
// an undecodable body.
type TransportError struct {
	Category   Category
	Handle     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s for %s: status %d: %v", e.Category, e.Handle, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s for %s: %v", e.Category, e.Handle, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedPayloadError reports a payload that decoded but lacks a required field.
type MalformedPayloadError struct {
	Kind  string
	Field string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed %s payload: missing %s", e.Kind, e.Field)
}

// PersistenceError reports a rejected write.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PartialBatchFailure is the aggregate outcome where some accounts failed.
type PartialBatchFailure struct {
	Failed int
	Total  int
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("%d of %d accounts failed", e.Failed, e.Total)
}
