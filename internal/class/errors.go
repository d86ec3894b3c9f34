package class

import (
	"errors"
	"fmt"
)

// Error reports a failed member access or super-dispatch on an object.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Class names the receiver's class, if known.
	Class string

	// Member names the member involved, if any.
	Member string
}

// ErrorCode categorizes class errors.
type ErrorCode string

const (
	// ErrCodeAncestorNotFound indicates Parent was asked for a class that is
	// not in the receiver's ancestry chain.
	ErrCodeAncestorNotFound ErrorCode = "ANCESTOR_NOT_FOUND"

	// ErrCodeMissingMember indicates a call to a member that does not exist.
	ErrCodeMissingMember ErrorCode = "MISSING_MEMBER"

	// ErrCodeNotCallable indicates a call to a data member.
	ErrCodeNotCallable ErrorCode = "NOT_CALLABLE"

	// ErrCodeBadArgument indicates a method received an argument of the wrong shape.
	ErrCodeBadArgument ErrorCode = "BAD_ARGUMENT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Class != "" && e.Member != "":
		return fmt.Sprintf("%s: %s (class=%s, member=%s)", e.Code, e.Message, e.Class, e.Member)
	case e.Class != "":
		return fmt.Sprintf("%s: %s (class=%s)", e.Code, e.Message, e.Class)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsAncestorNotFound reports whether err is an ANCESTOR_NOT_FOUND error.
// Uses errors.As to handle wrapped errors.
func IsAncestorNotFound(err error) bool {
	return hasCode(err, ErrCodeAncestorNotFound)
}

// IsMissingMember reports whether err is a MISSING_MEMBER error.
func IsMissingMember(err error) bool {
	return hasCode(err, ErrCodeMissingMember)
}

// IsNotCallable reports whether err is a NOT_CALLABLE error.
func IsNotCallable(err error) bool {
	return hasCode(err, ErrCodeNotCallable)
}

// IsBadArgument reports whether err is a BAD_ARGUMENT error.
func IsBadArgument(err error) bool {
	return hasCode(err, ErrCodeBadArgument)
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// NewAncestorNotFoundError creates an Error for a failed Parent lookup.
func NewAncestorNotFoundError(receiver, ancestor *Class) *Error {
	return &Error{
		Code:    ErrCodeAncestorNotFound,
		Message: fmt.Sprintf("%s is not an ancestor", ancestor.label()),
		Class:   receiver.label(),
	}
}

// NewMissingMemberError creates an Error for a call to an undefined member.
func NewMissingMemberError(c *Class, member string) *Error {
	return &Error{
		Code:    ErrCodeMissingMember,
		Message: "no such member",
		Class:   c.label(),
		Member:  member,
	}
}

// NewNotCallableError creates an Error for a call to a data member.
func NewNotCallableError(c *Class, member string, value any) *Error {
	return &Error{
		Code:    ErrCodeNotCallable,
		Message: fmt.Sprintf("member holds %T, not a method", value),
		Class:   c.label(),
		Member:  member,
	}
}

// NewBadArgumentError creates an Error for a method argument of the wrong shape.
func NewBadArgumentError(member string, index int, want string, got any) *Error {
	return &Error{
		Code:    ErrCodeBadArgument,
		Message: fmt.Sprintf("argument %d: want %s, got %T", index, want, got),
		Member:  member,
	}
}
