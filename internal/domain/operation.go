package domain

import (
	"errors"
	"fmt"
)

// OpType discriminates the drawing primitive variants.
type OpType string

const (
	OpLine   OpType = "line"
	OpRect   OpType = "rect"
	OpCircle OpType = "circle"
	OpText   OpType = "text"
)

var ErrMalformedOperation = errors.New("malformed operation")

// Operation is one drawing primitive submitted by a client. Geometry fields
// are pointers so that a present-but-zero coordinate is distinguishable from
// an absent one when validating the declared type.
//
// Canonical wire shapes, one per variant:
//
//	line:   {x0, y0, x1, y1}
//	rect:   {x, y, w, h}      (origin + size)
//	circle: {x, y, r}         (center + radius)
//	text:   {x, y, text}
//
// All variants carry color and size (stroke width; font size for text).
// Seq and Epoch are assigned by the server when the operation is accepted
// into a room's log; client-supplied values are overwritten.
type Operation struct {
	Type  OpType `json:"type"`
	Seq   uint64 `json:"seq,omitempty"`
	Epoch uint64 `json:"epoch,omitempty"`

	X0 *float64 `json:"x0,omitempty"`
	Y0 *float64 `json:"y0,omitempty"`
	X1 *float64 `json:"x1,omitempty"`
	Y1 *float64 `json:"y1,omitempty"`

	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	W *float64 `json:"w,omitempty"`
	H *float64 `json:"h,omitempty"`
	R *float64 `json:"r,omitempty"`

	Text *string `json:"text,omitempty"`

	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

// Validate checks that every geometry field required by the declared type is
// present. Color and size are advisory and not validated.
func (op *Operation) Validate() error {
	switch op.Type {
	case OpLine:
		if op.X0 == nil || op.Y0 == nil || op.X1 == nil || op.Y1 == nil {
			return fmt.Errorf("%w: line requires x0, y0, x1, y1", ErrMalformedOperation)
		}
	case OpRect:
		if op.X == nil || op.Y == nil || op.W == nil || op.H == nil {
			return fmt.Errorf("%w: rect requires x, y, w, h", ErrMalformedOperation)
		}
	case OpCircle:
		if op.X == nil || op.Y == nil || op.R == nil {
			return fmt.Errorf("%w: circle requires x, y, r", ErrMalformedOperation)
		}
	case OpText:
		if op.X == nil || op.Y == nil || op.Text == nil {
			return fmt.Errorf("%w: text requires x, y, text", ErrMalformedOperation)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedOperation, op.Type)
	}
	return nil
}

func ptr(f float64) *float64 { return &f }

// NewLine builds a line operation between two endpoints.
func NewLine(x0, y0, x1, y1 float64, color string, size float64) Operation {
	return Operation{Type: OpLine, X0: ptr(x0), Y0: ptr(y0), X1: ptr(x1), Y1: ptr(y1), Color: color, Size: size}
}

// NewRect builds a rect operation from its origin and size.
func NewRect(x, y, w, h float64, color string, size float64) Operation {
	return Operation{Type: OpRect, X: ptr(x), Y: ptr(y), W: ptr(w), H: ptr(h), Color: color, Size: size}
}

// NewCircle builds a circle operation from its center and radius.
func NewCircle(x, y, r float64, color string, size float64) Operation {
	return Operation{Type: OpCircle, X: ptr(x), Y: ptr(y), R: ptr(r), Color: color, Size: size}
}

// NewText builds a text operation; size is the font size.
func NewText(x, y float64, text, color string, size float64) Operation {
	return Operation{Type: OpText, X: ptr(x), Y: ptr(y), Text: &text, Color: color, Size: size}
}
