package qoi

import (
	"errors"
	"fmt"
)

// Code is the stable numeric result of an encode. CodeNone means success.
type Code uint8

const (
	CodeNone Code = iota
	CodeNullBuffer
	CodeInvalidDimensions
	CodeInvalidChannels
	CodeInvalidColorSpace
	CodeInvalidLength
)

var codeNames = [...]string{
	CodeNone:              "none",
	CodeNullBuffer:        "null buffer",
	CodeInvalidDimensions: "invalid dimensions",
	CodeInvalidChannels:   "invalid channels",
	CodeInvalidColorSpace: "invalid color space",
	CodeInvalidLength:     "invalid buffer length",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// EncodeError reports a rejected encode input.
type EncodeError struct {
	Code Code
}

func (e *EncodeError) Error() string {
	return "qoi: " + e.Code.String()
}

var (
	ErrNullBuffer        error = &EncodeError{Code: CodeNullBuffer}
	ErrInvalidDimensions error = &EncodeError{Code: CodeInvalidDimensions}
	ErrInvalidChannels   error = &EncodeError{Code: CodeInvalidChannels}
	ErrInvalidColorSpace error = &EncodeError{Code: CodeInvalidColorSpace}
	ErrInvalidLength     error = &EncodeError{Code: CodeInvalidLength}
)

var ErrParseHeader = errors.New("failed to parse QOI header")

// CodeOf extracts the Code carried by err. A nil error yields CodeNone and
// true; errors that did not come from validation yield false.
func CodeOf(err error) (Code, bool) {
	if err == nil {
		return CodeNone, true
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}
