// Package commenttree maintains the client-side view of a blog's
// comment thread: a flat, pre-order sequence of entries annotated with
// their depth, supporting incremental reply loading, collapsing and
// deletion without refetching the whole tree.
//
// Positions shift on every insert and delete, so callers must take a
// position snapshot immediately before invoking the next operation.
// The index is not safe for concurrent use; structural mutations are
// expected to run on a single goroutine, interleaved with network
// completions, the way a UI event loop drives them.
package commenttree

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
)

var ErrPositionOutOfRange = errors.New("position out of range")

// Author is the public profile subset populated on fetched comments.
type Author struct {
	Username   string `json:"username"`
	Fullname   string `json:"fullname"`
	ProfileImg string `json:"profile_img"`
}

// Comment is the wire shape of a single comment document.
type Comment struct {
	ID          uuid.UUID   `json:"_id"`
	BlogID      uuid.UUID   `json:"blog_id"`
	Text        string      `json:"comment"`
	CommentedAt time.Time   `json:"commentedAt"`
	CommentedBy Author      `json:"commented_by"`
	Parent      *uuid.UUID  `json:"parent,omitempty"`
	IsReply     bool        `json:"isReply"`
	Children    []uuid.UUID `json:"children"`
}

// Entry is one slot of the flattened sequence. Level is the depth
// relative to the thread root (top-level = 0). ReplyLoaded reports
// whether the entry's direct children are currently materialized in
// the sequence immediately after it.
type Entry struct {
	Comment
	Level       int
	ReplyLoaded bool

	parent int // index of the nearest preceding lower-level entry, -1 for top-level
}

// ReplySource fetches the next batch of direct replies of a comment,
// ordered by recency descending.
type ReplySource interface {
	Replies(ctx context.Context, parentID uuid.UUID, skip int) ([]Comment, error)
}

// Index is the in-memory comment thread. The flattened sequence is
// always a valid pre-order walk of the loaded comment forest: for any
// entry at position i with level L, the entries from i+1 onward with
// level > L are exactly its loaded descendants.
type Index struct {
	entries []*Entry
	source  ReplySource

	totalComments int64
	totalParents  int64
}

func NewIndex(source ReplySource) *Index {
	return &Index{source: source}
}

// Load replaces the index with a freshly fetched first page of
// top-level comments and the thread's activity counters.
func (x *Index) Load(top []Comment, totalComments, totalParents int64) {
	x.entries = x.entries[:0]
	for _, c := range top {
		x.entries = append(x.entries, &Entry{Comment: c, parent: -1})
	}
	x.totalComments = totalComments
	x.totalParents = totalParents
}

// AppendParents folds the next page of top-level comments onto the end
// of the sequence.
func (x *Index) AppendParents(batch []Comment) {
	for _, c := range batch {
		x.entries = append(x.entries, &Entry{Comment: c, parent: -1})
	}
	x.relink()
}

func (x *Index) Len() int { return len(x.entries) }

func (x *Index) TotalComments() int64       { return x.totalComments }
func (x *Index) TotalParentComments() int64 { return x.totalParents }

// At returns the entry at position pos.
func (x *Index) At(pos int) (*Entry, error) {
	if pos < 0 || pos >= len(x.entries) {
		return nil, fmt.Errorf("%w: %d", ErrPositionOutOfRange, pos)
	}
	return x.entries[pos], nil
}

// All yields the flattened pre-order sequence for rendering.
func (x *Index) All() iter.Seq2[int, *Entry] {
	return func(yield func(int, *Entry) bool) {
		for i, e := range x.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// ParentIndex returns the position of the entry's parent. The link is
// recomputed on every structural change, so the lookup never scans.
// A top-level entry has no parent.
func (x *Index) ParentIndex(pos int) (int, bool) {
	if pos < 0 || pos >= len(x.entries) || x.entries[pos].parent < 0 {
		return 0, false
	}
	return x.entries[pos].parent, true
}

// InsertTopLevel prepends a newly submitted top-level comment.
func (x *Index) InsertTopLevel(c Comment) {
	x.entries = append([]*Entry{{Comment: c, parent: -1}}, x.entries...)
	x.totalComments++
	x.totalParents++
	x.relink()
}

// InsertReply splices a newly submitted reply immediately after its
// parent, records it in the parent's children list and marks the
// parent's replies as loaded.
func (x *Index) InsertReply(parentPos int, c Comment) error {
	p, err := x.At(parentPos)
	if err != nil {
		return err
	}

	parentID := p.ID
	c.Parent = &parentID
	c.IsReply = true

	e := &Entry{Comment: c, Level: p.Level + 1, parent: parentPos}
	x.entries = append(x.entries, nil)
	copy(x.entries[parentPos+2:], x.entries[parentPos+1:])
	x.entries[parentPos+1] = e

	p.Children = append(p.Children, c.ID)
	p.ReplyLoaded = true
	x.totalComments++
	x.relink()
	return nil
}

// Expand materializes the next batch of the entry's direct replies,
// splicing them after any replies already shown. A first expansion
// (skip 0) collapses the subtree first so nothing is materialized
// twice; a load-more expansion (skip > 0) folds only the subtrees of
// the already-shown children so the batch lands contiguously.
func (x *Index) Expand(ctx context.Context, pos, skip int) error {
	p, err := x.At(pos)
	if err != nil {
		return err
	}
	if len(p.Children) == 0 {
		return nil
	}

	if skip == 0 {
		x.Collapse(pos)
	} else {
		for i := pos + 1; i < len(x.entries) && x.entries[i].Level > p.Level; i++ {
			if x.entries[i].Level == p.Level+1 {
				x.collapseAt(i)
			}
		}
	}

	replies, err := x.source.Replies(ctx, p.ID, skip)
	if err != nil {
		return err
	}

	shown := x.MaterializedReplies(pos)
	at := pos + 1 + shown
	batch := make([]*Entry, 0, len(replies))
	for _, r := range replies {
		batch = append(batch, &Entry{Comment: r, Level: p.Level + 1, parent: pos})
	}
	x.entries = append(x.entries[:at], append(batch, x.entries[at:]...)...)

	p.ReplyLoaded = true
	x.relink()
	return nil
}

// Collapse removes every contiguous following entry deeper than the
// one at pos and marks its replies as not loaded.
func (x *Index) Collapse(pos int) {
	if pos < 0 || pos >= len(x.entries) {
		return
	}
	x.collapseAt(pos)
	x.relink()
}

func (x *Index) collapseAt(pos int) {
	end := x.subtreeEnd(pos)
	x.entries = append(x.entries[:pos+1], x.entries[end:]...)
	x.entries[pos].ReplyLoaded = false
}

// Delete removes the entry at pos together with its loaded descendants
// and repairs the parent's children list. Deleting the last remaining
// reply of a parent resets the parent to the not-yet-loaded state so
// its reply count affordance becomes fetchable again.
func (x *Index) Delete(pos int) error {
	e, err := x.At(pos)
	if err != nil {
		return err
	}

	x.collapseAt(pos)

	if pi, ok := x.ParentIndex(pos); ok {
		p := x.entries[pi]
		kept := p.Children[:0]
		for _, id := range p.Children {
			if id != e.ID {
				kept = append(kept, id)
			}
		}
		p.Children = kept
		if len(p.Children) == 0 {
			p.ReplyLoaded = false
		}
	}

	x.entries = append(x.entries[:pos], x.entries[pos+1:]...)

	x.totalComments--
	if e.Level == 0 {
		x.totalParents--
	}
	x.relink()
	return nil
}

// MaterializedReplies counts the entry's direct children currently
// present in the sequence.
func (x *Index) MaterializedReplies(pos int) int {
	if pos < 0 || pos >= len(x.entries) {
		return 0
	}
	level := x.entries[pos].Level
	n := 0
	for i := pos + 1; i < len(x.entries) && x.entries[i].Level > level; i++ {
		if x.entries[i].Level == level+1 {
			n++
		}
	}
	return n
}

// CanLoadMore reports whether a load-more-replies affordance should be
// shown at pos: the entry closes its parent's materialized run (next
// entry is shallower, or end of sequence) and the parent still has
// replies on the server beyond those shown.
func (x *Index) CanLoadMore(pos int) bool {
	if pos < 0 || pos >= len(x.entries) {
		return false
	}
	e := x.entries[pos]
	if pos+1 < len(x.entries) && x.entries[pos+1].Level >= e.Level {
		return false
	}
	pi, ok := x.ParentIndex(pos)
	if !ok {
		return false
	}
	return x.MaterializedReplies(pi) < len(x.entries[pi].Children)
}

// subtreeEnd returns the position just past the loaded descendants of
// the entry at pos.
func (x *Index) subtreeEnd(pos int) int {
	level := x.entries[pos].Level
	end := pos + 1
	for end < len(x.entries) && x.entries[end].Level > level {
		end++
	}
	return end
}

// relink recomputes the parent index of every entry. Mutations keep
// the sequence a valid pre-order walk, so the nearest preceding entry
// of a strictly lower level is the parent.
func (x *Index) relink() {
	stack := make([]int, 0, 8)
	for i, e := range x.entries {
		for len(stack) > 0 && x.entries[stack[len(stack)-1]].Level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			e.parent = -1
		} else {
			e.parent = stack[len(stack)-1]
		}
		stack = append(stack, i)
	}
}
