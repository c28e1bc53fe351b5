package pcerr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeConflict       = "CONFLICT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternalError  = "INTERNAL_ERROR"

	CodePoseNotDetected   = "POSE_NOT_DETECTED"
	CodeIncompleteCapture = "INCOMPLETE_CAPTURE"
	CodeNoActiveReference = "NO_ACTIVE_REFERENCE"
	CodeMalformedInput    = "MALFORMED_INPUT"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrConflict is returned when a resource with the same identity already exists.
	ErrConflict = New(fiber.StatusConflict, CodeConflict, "resource already exists")

	ErrUnauthorized = New(fiber.StatusUnauthorized, CodeUnauthorized, "unauthorized")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrDetectionFailure is returned when the landmark provider reported no landmarks at all.
	ErrDetectionFailure = New(fiber.StatusUnprocessableEntity, CodePoseNotDetected, "pose not detected")

	// ErrIncompleteCapture is returned when too few landmarks are visible to compare the pose.
	ErrIncompleteCapture = New(fiber.StatusUnprocessableEntity, CodeIncompleteCapture, "full body not visible")

	// ErrNoActiveReference is returned when a frame is compared without a reference being selected.
	ErrNoActiveReference = New(fiber.StatusPreconditionFailed, CodeNoActiveReference, "no reference pose selected")

	// ErrMalformedInput is returned when a frame cannot be decoded or carries invalid landmarks.
	ErrMalformedInput = New(fiber.StatusBadRequest, CodeMalformedInput, "malformed input: frame could not be decoded")
)

type Extras map[string]interface{}

type Error struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e Error) Msg(format string, parts ...interface{}) *Error {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e Error) WithExtras(extras Extras) *Error {
	e.Extras = &extras
	return &e
}

// WithExtra returns a copy of e carrying key in addition to its existing extras.
func (e Error) WithExtra(key string, value interface{}) *Error {
	extras := Extras{}
	if e.Extras != nil {
		for k, v := range *e.Extras {
			extras[k] = v
		}
	}
	extras[key] = value
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations interface{}) *Error {
	// copy ErrInvalidReq as e
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is matches errors by their code, so a copy made by Msg or WithExtras still
// matches the error it was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}
