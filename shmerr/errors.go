// Package shmerr
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unified return-code and structured-error taxonomy shared by the region,
// ring, and health packages: a small code enum plus a structured error
// carrying free-form diagnostic context, with no dependency on any
// logging library.

package shmerr

import "fmt"

// Code is the single enumeration shared by the publish and consume paths.
type Code int

const (
	// Ok indicates success. For Consume, the payload length is returned as
	// a separate out value, not encoded in the code.
	Ok Code = 0
	// Error indicates invalid arguments or an attach failure.
	Error Code = -1
	// PayloadTooLarge indicates the payload exceeds the slot's capacity.
	PayloadTooLarge Code = -2
	// Truncated indicates the consumer's buffer was too small for the next message.
	Truncated Code = -3
	// Timeout indicates the MWMR generation-wait was exhausted.
	Timeout Code = -4
	// NoData indicates no new message is ready.
	NoData Code = -11
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "Ok"
	case Error:
		return "Error"
	case PayloadTooLarge:
		return "PayloadTooLarge"
	case Truncated:
		return "Truncated"
	case Timeout:
		return "Timeout"
	case NoData:
		return "NoData"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// StructuredError is a structured error carrying a return code and optional
// context, used for usage errors and fatal builder failures. Transient
// conditions (NoData, Timeout, Truncated) are returned as plain Code values,
// not as a *StructuredError — per the propagation policy, expected outcomes
// never allocate.
type StructuredError struct {
	Code    Code
	Message string
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// New creates a structured error with the given code and message.
func New(code Code, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// WithContext attaches a diagnostic key/value pair and returns the receiver.
func (e *StructuredError) WithContext(key string, value any) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Sentinel errors for region building and attaching. region.Build returns
// the builder failures; ErrUnknownTopic, ErrBadMagic and ErrInvalidArgs are
// also returned by Region.Lookup, region.Open and the ring package's
// OpenPublisher/OpenSubscriber. None of them arise on the publish/consume
// hot paths.
var (
	ErrInvalidArgs  = fmt.Errorf("shmbus: invalid builder arguments")
	ErrCreateFailed = fmt.Errorf("shmbus: failed to create backing region object")
	ErrResizeFailed = fmt.Errorf("shmbus: failed to size backing region object")
	ErrMapFailed    = fmt.Errorf("shmbus: failed to map region into process address space")
	ErrOutOfRegion  = fmt.Errorf("shmbus: topic layout exceeds region size")
	ErrUnknownTopic = fmt.Errorf("shmbus: topic not found in region")
	ErrBadMagic     = fmt.Errorf("shmbus: region magic/version mismatch")
	ErrDuplicateTopic = fmt.Errorf("shmbus: duplicate topic name")
)
