// Package frame implements tsg's activation-record layout: the ordered
// list of members a function's frame holds (parameters and locals) and
// the static chain linking a frame to its lexically enclosing one.
package frame

import "github.com/tsg-lang/tsg/internal/types"

// Member is one binding slot in a Frame: a parameter or a val-declared
// local. Index is its 0-based position among the function's own
// declared bindings; lowering adds the static-chain slot afterward, so
// Index never accounts for it.
type Member struct {
	Name    string
	Index   int
	TypeVar types.TypeVar
}

// Frame is one function's activation record: its own members plus a
// link to the lexically enclosing function's frame (nil at the root).
type Frame struct {
	Members []*Member
	Depth   int
	Outer   *Frame
}

// NewFrame opens a frame nested inside outer (nil for the root
// function).
func NewFrame(outer *Frame) *Frame {
	depth := 0
	if outer != nil {
		depth = outer.Depth + 1
	}
	return &Frame{Outer: outer, Depth: depth}
}

// AddMember appends a new member named name, backed by a fresh type
// variable allocated from set, and returns it. The member's Index is
// the frame's size before the append.
func (f *Frame) AddMember(name string, set *types.TypeSet) *Member {
	m := &Member{Name: name, Index: len(f.Members), TypeVar: set.NewVar()}
	f.Members = append(f.Members, m)
	return m
}

// Size returns the number of members declared directly in this frame.
func (f *Frame) Size() int { return len(f.Members) }
