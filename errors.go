// seehuhn.de/go/vecscene - a retained-mode renderer for vector animation
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package vecscene

import (
	"fmt"
)

// Kind classifies the errors returned by this package.  Kinds can be used
// as targets for [errors.Is].
type Kind int

const (
	// KindResourceExhausted means a canvas limit was reached.  The current
	// frame is aborted and the previous frame stays visible.
	KindResourceExhausted Kind = iota + 1

	// KindInvalidState indicates API misuse, for example adding a gradient
	// stop after the gradient was completed.  The call has no effect.
	KindInvalidState

	// KindNotReady means a resource is used before it is loaded.
	KindNotReady

	// KindNotImplemented marks features which are accepted by the API but
	// not supported.
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindResourceExhausted:
		return "resource exhausted"
	case KindInvalidState:
		return "invalid state"
	case KindNotReady:
		return "not ready"
	case KindNotImplemented:
		return "not implemented"
	default:
		return "unknown"
	}
}

// Error implements the error interface, so that a Kind can be passed to
// [errors.Is].
func (k Kind) Error() string {
	return k.String()
}

// Error describes a failed operation.
type Error struct {
	// Op is the operation that failed, e.g. "Paint.AddStop".
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// invalid returns an InvalidState error and logs it.
func invalid(op, msg string) error {
	err := &Error{Op: op, Kind: KindInvalidState, Err: fmt.Errorf("%s", msg)}
	Logger().Debug("ignored call", "op", op, "reason", msg)
	return err
}
