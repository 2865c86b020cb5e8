package hshex

import (
	"errors"
	"fmt"
)

// Kind classifies a FormatError. Callers should branch on Kind rather than
// matching error strings.
type Kind string

const (
	KindInvalidHeader      Kind = "InvalidHeader"
	KindInvalidPixelRecord Kind = "InvalidPixelRecord"
	KindChannelOverflow    Kind = "ChannelOverflow"
)

// FormatError reports HSHEX content that does not follow the format.
//
// Index is the 0-based pixel record index for record-level kinds and -1 for
// header errors. Line is the 1-based source line, or 0 when the input ended
// before the offending record.
type FormatError struct {
	Kind    Kind
	Index   int
	Line    int
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var where string
	switch {
	case e.Index >= 0 && e.Line > 0:
		where = fmt.Sprintf(" (pixel %d, line %d)", e.Index, e.Line)
	case e.Index >= 0:
		where = fmt.Sprintf(" (pixel %d)", e.Index)
	case e.Line > 0:
		where = fmt.Sprintf(" (line %d)", e.Line)
	}
	return fmt.Sprintf("hshex: %s%s: %s", e.Kind, where, e.Message)
}

func (e *FormatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IOError reports a failure of the underlying file or stream.
type IOError struct {
	Op   string // "open", "read", "write", "close" or "rename"
	Path string // empty for bare streams
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return fmt.Sprintf("hshex: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("hshex: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err wraps a FormatError of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *FormatError
	return errors.As(err, &fe) && fe.Kind == kind
}

func headerError(line int, format string, args ...any) error {
	return &FormatError{Kind: KindInvalidHeader, Index: -1, Line: line, Message: fmt.Sprintf(format, args...)}
}

func recordError(kind Kind, index, line int, cause error, format string, args ...any) error {
	return &FormatError{Kind: kind, Index: index, Line: line, Message: fmt.Sprintf(format, args...), Err: cause}
}
