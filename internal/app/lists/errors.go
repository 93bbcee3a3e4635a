// internal/app/lists/errors.go
package lists

import (
	"errors"
	"net/http"
)

// Kind classifies a service error. Each kind carries an advisory HTTP
// status for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUpstream
	KindUnconfigured
)

// String returns the stable, client-visible code for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	case KindUnconfigured:
		return "unconfigured"
	default:
		return "internal"
	}
}

// Status returns the advisory HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream, KindUnconfigured:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by Service when a precondition is violated.
// Message is the human-readable text clients have historically matched on.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status returns the advisory HTTP status.
func (e *Error) Status() int { return e.Kind.Status() }

// Code returns the stable error code.
func (e *Error) Code() string { return e.Kind.String() }

func newError(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// User-visible messages.
const (
	MsgListNotFound      = "List not found"
	MsgItemNotFound      = "Item not found"
	MsgUserIDRequired    = "userId is required"
	MsgTitleRequired     = "Title is required"
	MsgOwnerRequired     = "Owner is required"
	MsgItemNameRequired  = "Item name is required"
	MsgNewTitleEmpty     = "New title cannot be empty"
	MsgItemNameUnchanged = "New item name must be different from current name"
	MsgItemNameTaken     = "An item with that name already exists in this list"
	MsgListTitleTaken    = "A list with that name already exists"
	MsgListModified      = "List was modified by another request"
	MsgAuthNotConfigured = "Auth service not configured"
	MsgNoUsersFound      = "No users found for the provided usernames"
	MsgAuthFetchFailed   = "Failed to fetch users from auth service"
	MsgItemNameUpdated   = "Item name updated successfully"
	MsgItemUpdated       = "Item updated successfully"
	MsgListTitleUpdated  = "List title updated successfully"
	MsgListDeleted       = "List deleted successfully"
)

// KindOf returns the kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
