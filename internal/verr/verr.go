// Package verr defines the error taxonomy shared by every decoding stage of
// the Vorbis decoder: a bitstream is either semantically broken
// (Undecodable), arrived as the wrong packet type (WrongPacketKind), ran out
// of data where the format allows silent truncation (ExpectedEOF), or failed
// at the I/O layer (IO).
package verr

import (
	"io"

	"github.com/pkg/errors"
)

// Kind classifies an Error so callers can decide whether it is fatal.
type Kind int

const (
	// Undecodable means the bitstream violates the Vorbis I format and
	// cannot be decoded any further.
	Undecodable Kind = iota
	// WrongPacketKind means a header packet was read out of sequence or
	// carried an unexpected packet type tag.
	WrongPacketKind
	// ExpectedEOF means the bitstream ran out while decoding a floor or
	// residue vector; this is part of normal operation (see IsUnexpectedEOF)
	// and is always resolved locally, never returned to a decoder caller.
	ExpectedEOF
	// IOKind means the underlying reader failed or ran out of data. IO
	// assigns this kind to every error it wraps; floor and residue decoding
	// recognize their own truncation with IsUnexpectedEOF and swallow it.
	IOKind
)

func (k Kind) String() string {
	switch k {
	case Undecodable:
		return "undecodable"
	case WrongPacketKind:
		return "wrong packet kind"
	case ExpectedEOF:
		return "expected eof"
	case IOKind:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the typed error built by the packages of this module; KindOf
// reports IOKind for any other error.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf reports the classification of err, defaulting to IO for errors not
// originating in this module (e.g. a bare io error from a caller-supplied
// reader).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return IOKind
}

// Undecodablef reports a semantic violation of the Vorbis I bitstream
// format.
func Undecodablef(format string, args ...interface{}) error {
	return &Error{kind: Undecodable, msg: errors.Errorf(format, args...).Error()}
}

// WrongPacketKindf reports a header packet with an unexpected type tag or
// read out of the expected ident/comment/setup sequence.
func WrongPacketKindf(format string, args ...interface{}) error {
	return &Error{kind: WrongPacketKind, msg: errors.Errorf(format, args...).Error()}
}

// IO wraps an I/O failure from the underlying reader with context, following
// github.com/pkg/errors' convention used throughout this module.
func IO(err error, context string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: IOKind, msg: context, cause: errors.WithStack(err)}
}

// IsUnexpectedEOF reports whether err (or its cause, for an *Error produced
// by IO) ultimately wraps io.ErrUnexpectedEOF. Floor and residue decoding
// truncate their output and swallow this condition instead of surfacing it;
// it must never reach a Decoder caller.
func IsUnexpectedEOF(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		if e.kind == ExpectedEOF {
			return true
		}
		err = e.cause
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}
