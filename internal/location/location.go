// Package location tracks source positions during compilation for
// user-facing diagnostics.
//
// A Stack is scoped to one compilation session and is threaded through the
// driver explicitly. Every traversal step that enters a syntax node with
// position metadata pushes before processing children and releases on every
// exit path, so the innermost location is always available when an error is
// constructed.
package location

import "fmt"

// Location identifies a position in a source unit.
// Immutable; used purely for diagnostics, never persisted in the graph.
type Location struct {
	Source string // canonical path or URL of the source unit
	Line   int
	Column int
}

// String renders the location as "source:line:column".
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}

// Stack is a compilation-session-scoped stack of locations.
// The zero value is ready to use.
type Stack struct {
	frames []Location
}

// Push appends a location and returns a release function that pops exactly
// this frame. Callers defer the release so the stack unwinds to its pre-visit
// depth on every exit path, including error propagation.
func (s *Stack) Push(loc Location) (release func()) {
	s.frames = append(s.frames, loc)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Top returns the most recent location without removing it.
func (s *Stack) Top() (Location, bool) {
	if len(s.frames) == 0 {
		return Location{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Pop removes and returns the most recent location.
func (s *Stack) Pop() (Location, bool) {
	if len(s.frames) == 0 {
		return Location{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Clear empties the stack. Called once at the start of an independent
// top-level compilation so context never leaks between unrelated runs.
func (s *Stack) Clear() {
	s.frames = s.frames[:0]
}

// Depth returns the current number of frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}
