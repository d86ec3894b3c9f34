package engine

import (
	"errors"
	"fmt"

	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/compiler"
)

// RuntimeError represents an error detected while the engine drives
// classes and objects.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Object is the key of the affected object, if any.
	Object string

	// Class names the affected class, if any.
	Class string

	// Member names the affected member, if any.
	Member string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownClass indicates a class name that was never declared.
	ErrCodeUnknownClass RuntimeErrorCode = "UNKNOWN_CLASS"

	// ErrCodeUnknownObject indicates an object key with no object behind it.
	ErrCodeUnknownObject RuntimeErrorCode = "UNKNOWN_OBJECT"

	// ErrCodeDuplicateObject indicates an object key already in use.
	ErrCodeDuplicateObject RuntimeErrorCode = "DUPLICATE_OBJECT"

	// ErrCodeUnknownBehavior indicates a method reference that does not parse.
	ErrCodeUnknownBehavior RuntimeErrorCode = "UNKNOWN_BEHAVIOR"

	// ErrCodeDepthExceeded indicates nested behavior calls went past the
	// configured maximum depth.
	ErrCodeDepthExceeded RuntimeErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeInvalidSpecs indicates the specs given to New failed validation.
	ErrCodeInvalidSpecs RuntimeErrorCode = "INVALID_SPECS"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.Object != "" && e.Member != "":
		return fmt.Sprintf("%s: %s (object=%s, member=%s)", e.Code, e.Message, e.Object, e.Member)
	case e.Object != "":
		return fmt.Sprintf("%s: %s (object=%s)", e.Code, e.Message, e.Object)
	case e.Class != "":
		return fmt.Sprintf("%s: %s (class=%s)", e.Code, e.Message, e.Class)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownObject returns true if err is an UNKNOWN_OBJECT runtime error.
func IsUnknownObject(err error) bool {
	return hasCode(err, ErrCodeUnknownObject)
}

// IsDepthExceeded returns true if err is a DEPTH_EXCEEDED runtime error.
func IsDepthExceeded(err error) bool {
	return hasCode(err, ErrCodeDepthExceeded)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// CodeOf returns the code of the first runtime, class or validation error in
// err's chain, or "" if there is none.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	var ce *class.Error
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	var ve compiler.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func newUnknownObjectError(key string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownObject, Message: "no object with this key", Object: key}
}

func newUnknownClassError(name string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownClass, Message: "class not declared", Class: name}
}

func newDepthError(key, member string, limit int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("behavior calls nested deeper than %d", limit),
		Object:  key,
		Member:  member,
	}
}
