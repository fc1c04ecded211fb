package render

import (
	"errors"
	"fmt"
)

// Code classifies a render failure.
type Code string

const (
	CodePartNotFound      Code = "PART_NOT_FOUND"
	CodeCircularReference Code = "CIRCULAR_REFERENCE"
	CodeParseError        Code = "PARSE_ERROR"
)

var (
	// ErrPartNotFound matches failures caused by an unknown part id.
	ErrPartNotFound = errors.New("render: part not found")
	// ErrCircularReference matches failures caused by a component revisiting
	// itself during one render.
	ErrCircularReference = errors.New("render: circular reference")
	// ErrParse matches malformed page data or templates that cannot be
	// interpreted.
	ErrParse = errors.New("render: parse error")
)

// RenderError reports a failure localized to one component.
type RenderError struct {
	Code    Code
	Path    string
	PartID  string
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render: %s at %s: %s", e.Code, e.Path, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the sentinel matching Code and the underlying cause.
func (e *RenderError) Unwrap() []error {
	out := make([]error, 0, 2)
	if sentinel := e.Code.sentinel(); sentinel != nil {
		out = append(out, sentinel)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (c Code) sentinel() error {
	switch c {
	case CodePartNotFound:
		return ErrPartNotFound
	case CodeCircularReference:
		return ErrCircularReference
	case CodeParseError:
		return ErrParse
	default:
		return nil
	}
}
