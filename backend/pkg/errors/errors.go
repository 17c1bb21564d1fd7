package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeAuth represents authentication/verification errors
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeValidation represents input validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents missing-node errors
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict represents uniqueness/reverse-guard violations
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields. Message is the stable,
// machine-readable string clients branch on.
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Base exposes the embedded base error; promoted through typed errors so
// category checks see them
func (e *BaseError) Base() *BaseError {
	return e
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Auth errors

// ErrLoginRequired is returned when an anonymous caller hits a mutation
var ErrLoginRequired = NewBaseError(ErrorTypeAuth, "You must be logged in", nil)

// ErrNotVerified is returned when an unverified account hits a gated mutation
var ErrNotVerified = NewBaseError(ErrorTypeAuth, "Your account is not verified", nil)

// Validation errors

// ErrTweetEmpty is returned when tweet content is blank
var ErrTweetEmpty = NewBaseError(ErrorTypeValidation, "Your tweet is empty", nil)

// ErrTweetTooLong is returned when tweet content is at or above the ceiling
var ErrTweetTooLong = NewBaseError(ErrorTypeValidation, "Your tweet must be less than 150 characters", nil)

// ErrCommentEmpty is returned when comment content is blank
var ErrCommentEmpty = NewBaseError(ErrorTypeValidation, "Your comment is empty", nil)

// ErrSelfFollow is returned when a user tries to follow themselves
var ErrSelfFollow = NewBaseError(ErrorTypeValidation, "You cannot follow yourself", nil)

// Capability errors. A bad type tag and a known-but-incapable kind surface the
// same message so schema structure does not leak to the caller. A uid that
// does not resolve for the requested kind folds into these as well.

// ErrNotLikeable is returned when the target cannot be liked
var ErrNotLikeable = NewBaseError(ErrorTypeValidation, "This cannot be liked", nil)

// ErrNotCommentable is returned when the target cannot be commented
var ErrNotCommentable = NewBaseError(ErrorTypeValidation, "This cannot be commented", nil)

// Conflict errors

// ErrAlreadyLiked is returned when the (user, content) like edge already exists
var ErrAlreadyLiked = NewBaseError(ErrorTypeConflict, "You already like this", nil)

// ErrUnliked is returned when there is no like edge to remove
var ErrUnliked = NewBaseError(ErrorTypeConflict, "You cannot unlike", nil)

// ErrAlreadyRetweeted is returned when the user already retweeted the tweet
var ErrAlreadyRetweeted = NewBaseError(ErrorTypeConflict, "You already have retweeted this", nil)

// ErrAlreadyFollowed is returned when the follow edge already exists
var ErrAlreadyFollowed = NewBaseError(ErrorTypeConflict, "You already follow this user", nil)

// ErrNotFollowing is returned when there is no follow edge to remove
var ErrNotFollowing = NewBaseError(ErrorTypeConflict, "You cannot unfollow this user", nil)

// Not-found errors

// ErrTweetNotFound is returned when a uid does not resolve to a Tweet
type ErrTweetNotFound struct {
	*BaseError
	UID string
}

func NewTweetNotFound(uid string) *ErrTweetNotFound {
	return &ErrTweetNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, "Tweet not found", nil),
		UID:       uid,
	}
}

// ErrHashtagNotFound is returned when a normalized tag has no Hashtag node
type ErrHashtagNotFound struct {
	*BaseError
	Tag string
}

func NewHashtagNotFound(tag string) *ErrHashtagNotFound {
	return &ErrHashtagNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, "Hashtag not found", nil),
		Tag:       tag,
	}
}

// ErrUserNotFound is returned when a uid does not resolve to a User
type ErrUserNotFound struct {
	*BaseError
	UID string
}

func NewUserNotFound(uid string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, "User not found", nil),
		UID:       uid,
	}
}

// Graph errors

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Config errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if withBase, ok := err.(interface{ Base() *BaseError }); ok {
		return withBase.Base().Type == errType
	}
	if wrapper, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapper.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

// Message returns the stable client-facing message for an error, falling back
// to Error() for errors outside the taxonomy.
func Message(err error) string {
	if withBase, ok := err.(interface{ Base() *BaseError }); ok {
		return withBase.Base().Message
	}
	if wrapper, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapper.Unwrap(); inner != nil {
			return Message(inner)
		}
	}
	return err.Error()
}
