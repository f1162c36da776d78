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

// Package canvas implements a retained-mode 2D scene graph which renders
// into an [image.RGBA].
//
// Nodes are added with [Canvas.Push] and replaced with [Canvas.Update].
// A call to [Canvas.Draw] starts rendering all visible nodes, in the order
// they were first pushed, and [Canvas.Sync] waits for the result.  Rendering
// is split into horizontal bands which are processed concurrently.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/geom/matrix"
)

var (
	// ErrResourceExhausted is returned when a configured limit is reached.
	ErrResourceExhausted = errors.New("resource limit exceeded")

	// ErrBusy is returned by mutating methods between Draw and Sync.
	ErrBusy = errors.New("canvas is drawing")

	// ErrUnknownHandle is returned for handles which are not on the canvas.
	ErrUnknownHandle = errors.New("unknown node handle")

	// ErrNoTarget is returned by Draw if no target image is set.
	ErrNoTarget = errors.New("no target image")
)

// Handle identifies a node on the canvas.  The zero Handle is never used.
type Handle uint64

// EventKind describes a change to the canvas.
type EventKind int

// These are the possible kinds of events.
const (
	EventInsert EventKind = iota
	EventUpdate
	EventHide
	EventRemove
)

func (k EventKind) String() string {
	switch k {
	case EventInsert:
		return "insert"
	case EventUpdate:
		return "update"
	case EventHide:
		return "hide"
	case EventRemove:
		return "remove"
	default:
		return "invalid"
	}
}

// Event is delivered to the listener after each change of the canvas.
type Event struct {
	Kind   EventKind
	Handle Handle
}

type entry struct {
	handle Handle
	node   Node
	hidden bool
}

// Canvas holds a list of top-level nodes and renders them into a target
// image.
//
// A Canvas is not safe for concurrent use.  While a Draw is in progress,
// nodes passed to the canvas must not be modified.
type Canvas struct {
	cfg *Config
	log *slog.Logger
	bg  pixel

	target   *image.RGBA
	listener func(Event)

	entries []entry
	last    Handle

	drawing   *errgroup.Group
	drawStart time.Time
}

// New creates a canvas which draws into target.  The target may be nil and
// set later using SetTarget.  If cfg is nil, [DefaultConfig] is used.
func New(target *image.RGBA, cfg *Config) (*Canvas, error) {
	cfg = cfg.withDefaults()
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Canvas{
		cfg:    cfg,
		log:    log,
		bg:     premultiply(bg),
		target: target,
	}, nil
}

// Config returns the configuration of the canvas, with defaults filled in.
func (c *Canvas) Config() *Config {
	return c.cfg
}

// SetTarget changes the image the canvas draws into.
func (c *Canvas) SetTarget(target *image.RGBA) error {
	if c.drawing != nil {
		return ErrBusy
	}
	c.target = target
	return nil
}

// Target returns the current target image.
func (c *Canvas) Target() *image.RGBA {
	return c.target
}

// SetListener installs a function which is called after every change of
// the node list.  Pass nil to remove the listener.
func (c *Canvas) SetListener(f func(Event)) {
	c.listener = f
}

func (c *Canvas) notify(kind EventKind, h Handle) {
	if c.listener != nil {
		c.listener(Event{Kind: kind, Handle: h})
	}
}

// NewShape returns an empty shape, limited to the configured number of
// points.
func (c *Canvas) NewShape() *Shape {
	s := NewShape()
	s.maxPoints = c.cfg.MaxPathPoints
	return s
}

// Len returns the number of nodes on the canvas, including hidden ones.
func (c *Canvas) Len() int {
	return len(c.entries)
}

func (c *Canvas) find(h Handle) int {
	for i := range c.entries {
		if c.entries[i].handle == h {
			return i
		}
	}
	return -1
}

// Push adds a node on top of all existing nodes.  The canvas keeps n; the
// caller must not modify it afterwards.
func (c *Canvas) Push(n Node) (Handle, error) {
	if c.drawing != nil {
		return 0, ErrBusy
	}
	if len(c.entries) >= c.cfg.MaxNodes {
		return 0, fmt.Errorf("canvas holds %d nodes: %w", len(c.entries), ErrResourceExhausted)
	}
	if err := check(n); err != nil {
		return 0, err
	}
	c.last++
	c.entries = append(c.entries, entry{handle: c.last, node: n})
	c.notify(EventInsert, c.last)
	return c.last, nil
}

// Update replaces the node for h in place, keeping its position in the
// drawing order.  A hidden node becomes visible again.
func (c *Canvas) Update(h Handle, n Node) error {
	if c.drawing != nil {
		return ErrBusy
	}
	i := c.find(h)
	if i < 0 {
		return ErrUnknownHandle
	}
	if err := check(n); err != nil {
		return err
	}
	c.entries[i].node = n
	c.entries[i].hidden = false
	c.notify(EventUpdate, h)
	return nil
}

// Hide excludes the node for h from drawing until it is updated.
func (c *Canvas) Hide(h Handle) error {
	if c.drawing != nil {
		return ErrBusy
	}
	i := c.find(h)
	if i < 0 {
		return ErrUnknownHandle
	}
	if c.entries[i].hidden {
		return nil
	}
	c.entries[i].hidden = true
	c.notify(EventHide, h)
	return nil
}

// Remove deletes the node for h from the canvas.
func (c *Canvas) Remove(h Handle) error {
	if c.drawing != nil {
		return ErrBusy
	}
	i := c.find(h)
	if i < 0 {
		return ErrUnknownHandle
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	c.notify(EventRemove, h)
	return nil
}

// Clear removes all nodes.
func (c *Canvas) Clear() error {
	if c.drawing != nil {
		return ErrBusy
	}
	old := c.entries
	c.entries = nil
	for _, e := range old {
		c.notify(EventRemove, e.handle)
	}
	return nil
}

// Node returns the node for h, or nil if h is not on the canvas.
func (c *Canvas) Node(h Handle) Node {
	if i := c.find(h); i >= 0 {
		return c.entries[i].node
	}
	return nil
}

// Draw starts rendering all visible nodes into the target.  The target
// must not be accessed until Sync has returned.
func (c *Canvas) Draw() error {
	if c.drawing != nil {
		return ErrBusy
	}
	if c.target == nil {
		return ErrNoTarget
	}

	var nodes []Node
	for _, e := range c.entries {
		if !e.hidden {
			nodes = append(nodes, e.node)
		}
	}

	bounds := c.target.Rect
	bandHeight := max(minBandHeight, (bounds.Dy()+c.cfg.Workers-1)/c.cfg.Workers)

	g := &errgroup.Group{}
	g.SetLimit(c.cfg.Workers)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += bandHeight {
		rect := image.Rect(bounds.Min.X, y, bounds.Max.X, min(y+bandHeight, bounds.Max.Y))
		g.Go(func() error {
			b := newBand(c.target, rect, c.cfg.Flatness)
			b.clear(c.bg)
			for _, n := range nodes {
				b.drawNode(c.target, n, matrix.Identity, nil)
			}
			return nil
		})
	}

	c.drawing = g
	c.drawStart = time.Now()
	return nil
}

// Sync waits until the rendering started by Draw is complete.  It returns
// immediately if no Draw is in progress.
func (c *Canvas) Sync() error {
	if c.drawing == nil {
		return nil
	}
	err := c.drawing.Wait()
	c.drawing = nil
	c.log.Debug("canvas drawn",
		slog.Int("nodes", len(c.entries)),
		slog.Duration("elapsed", time.Since(c.drawStart)))
	return err
}

// Busy reports whether a Draw is in progress.
func (c *Canvas) Busy() bool {
	return c.drawing != nil
}

// minBandHeight is the smallest number of rows rendered by one worker.
const minBandHeight = 16

// Background returns the colour the target is cleared to by Draw.
func (c *Canvas) Background() color.Color {
	return color.RGBA{R: to8(c.bg.r), G: to8(c.bg.g), B: to8(c.bg.b), A: to8(c.bg.a)}
}
