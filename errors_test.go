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
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	err := error(&Error{Op: "Test.Op", Kind: KindNotReady, Err: cause})

	if !errors.Is(err, KindNotReady) {
		t.Error("kind not matched")
	}
	if errors.Is(err, KindInvalidState) {
		t.Error("wrong kind matched")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not found")
	}

	var e *Error
	if !errors.As(err, &e) || e.Op != "Test.Op" {
		t.Errorf("errors.As: got %v", e)
	}
	if got, want := err.Error(), "Test.Op [not ready]: boom"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := (&Error{Op: "X", Kind: KindNotImplemented}).Error(), "X [not implemented]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		KindResourceExhausted: "resource exhausted",
		KindInvalidState:      "invalid state",
		KindNotReady:          "not ready",
		KindNotImplemented:    "not implemented",
		Kind(0):               "unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d: got %q, want %q", int(k), got, want)
		}
	}
}

func TestLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	p := NewPaint()
	if err := p.AddStop(opaqueRed, 0); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(buf.String(), "op=Paint.AddStop") {
		t.Errorf("log output missing: %q", buf.String())
	}
}
