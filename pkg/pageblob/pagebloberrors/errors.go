// Package pagebloberrors defines the error taxonomy shared by every
// layer of the append-log: the block-store adapter, the page window,
// the framed streams and the handle's state machine.
//
// Every error the handle defines is a gRPC status error (carrying a
// codes.Code), following the convention used throughout
// pkg/pageblob/util. The exceptions are the three block-store
// conditions (ErrContainerMissing, ErrTransientTransportError,
// ErrBlobMissing), which are plain sentinel errors matched with
// errors.Is. Errors that need to carry additional
// diagnostic information (corruption details) are implemented as Go
// error types with a GRPCStatus() method, so that both status.Code(err)
// and errors.As(err, &target) work against the same value.
package pagebloberrors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotInitialized is returned when an operation other than Init is
// issued against a handle that has not been successfully initialized.
var ErrNotInitialized = status.Error(codes.FailedPrecondition, "append log has not been initialized")

// ErrBlobNotFound is returned by Init when the blob (or its container)
// is absent and the caller did not opt into auto-create.
var ErrBlobNotFound = status.Error(codes.NotFound, "blob does not exist and auto-create was not requested")

// ErrContainerMissing is one of the two error conditions the core
// distinguishes structurally from an opaque block-store error. A
// block-store implementation returns it from any operation to signal
// that the container holding the blob does not exist.
var ErrContainerMissing = errors.New("container does not exist")

// ErrTransientTransportError is the other structurally distinguished
// condition. A block-store implementation returns it (or wraps it,
// recoverable via errors.Is) to signal that the operation failed for a
// reason that is expected to clear up on retry.
var ErrTransientTransportError = errors.New("transient transport error")

// ErrBlobMissing is returned by a block-store implementation from any
// operation that requires the blob to already exist. It is distinct
// from ErrBlobNotFound, which is what the handle surfaces to its own
// caller when auto-create was not requested.
var ErrBlobMissing = errors.New("blob does not exist")

// ForbiddenError is returned when an operation is not legal in the
// handle's current state (e.g. Append while Reading). It is a
// programmer error; a correct caller never triggers it.
type ForbiddenError struct {
	Operation string
	State     string
}

// NewForbidden creates a ForbiddenError for the given operation/state pair.
func NewForbidden(operation, state string) error {
	return &ForbiddenError{Operation: operation, State: state}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("operation %s is not legal in state %s", e.Operation, e.State)
}

// GRPCStatus allows status.Code() and status.Convert() to treat this
// type like any other status error.
func (e *ForbiddenError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// CorruptedError describes a violation of the on-blob format detected
// by the sequential reader: a short read, a LEN exceeding the
// configured protection limit, or an END_MARKER that was expected but
// not found.
//
// LastPage optionally carries up to one page of bytes preceding the
// failure, for forensic use. Tests should assert Pos and Message, not
// the contents of LastPage.
type CorruptedError struct {
	Pos      int64
	Message  string
	LastPage []byte
}

// NewCorrupted creates a CorruptedError.
func NewCorrupted(pos int64, message string, lastPage []byte) error {
	return &CorruptedError{Pos: pos, Message: message, LastPage: lastPage}
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("append log corrupted at position %d: %s", e.Pos, e.Message)
}

// GRPCStatus allows status.Code() and status.Convert() to treat this
// type like any other status error.
func (e *CorruptedError) GRPCStatus() *status.Status {
	return status.New(codes.DataLoss, e.Error())
}

// AsCorrupted extracts a *CorruptedError from err, following the same
// convention as errors.As.
func AsCorrupted(err error) (*CorruptedError, bool) {
	var c *CorruptedError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
