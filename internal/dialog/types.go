// Package dialog implements the condition-gated dialog graph engine:
// the authored data model, the condition evaluator, the graph resolver,
// the line event dispatcher, and the localization-aware definition cache.
//
// Resolution is pure with respect to (definition, collaborator state).
// Definitions are immutable after load; only the cache mapping mutates.
package dialog

import (
	"errors"
	"fmt"
)

// NodeID identifies a node within one definition. Authored ids are
// positive; any resolved id <= 0 signals end-of-dialog.
type NodeID int

// Terminal is the sentinel returned when resolution ends the dialog.
const Terminal NodeID = -1

// CompareOp is a numeric comparison operator in a condition.
type CompareOp string

const (
	OpEqual        CompareOp = "EQUAL"
	OpNotEqual     CompareOp = "NOT_EQUAL"
	OpGreaterThan  CompareOp = "GREATER_THAN"
	OpGreaterEqual CompareOp = "GREATER_EQUAL"
	OpLessThan     CompareOp = "LESS_THAN"
	OpLessEqual    CompareOp = "LESS_EQUAL"
)

// ConditionKind selects which collaborator a condition reads from.
type ConditionKind string

const (
	// CondState compares a value from the key-value state store.
	CondState ConditionKind = "state"
	// CondOwned compares an owned-item count from the inventory store.
	CondOwned ConditionKind = "owned"
)

// Condition is a single predicate against external game state.
// A zero-valued kind or value means "no constraint".
type Condition struct {
	Kind   ConditionKind `json:"kind,omitempty"`
	Target string        `json:"target,omitempty"`
	Value  string        `json:"value,omitempty"`
	Op     CompareOp     `json:"op,omitempty"`
}

// Transition pairs an optional condition with a target node id.
// Transition lists are ordered; the first matching entry wins.
type Transition struct {
	Cond *Condition `json:"cond,omitempty"`
	Next NodeID     `json:"next"`
}

// EventKind selects the side effect an event performs.
type EventKind string

const (
	EventSetState   EventKind = "set_state"
	EventAddItem    EventKind = "add_item"
	EventRemoveItem EventKind = "remove_item"
)

// Event is a gated side effect executed after a line is fully revealed.
type Event struct {
	Kind EventKind  `json:"kind"`
	Arg1 string     `json:"arg1,omitempty"`
	Arg2 string     `json:"arg2,omitempty"`
	Cond *Condition `json:"cond,omitempty"`
}

// Option is one authored player response on a node.
//
// Visibility: when Cond is absent or true the option is shown as-is.
// When Cond is false and FailText is set, a disabled bracketed entry is
// shown instead. When Cond is false and FailText is empty, the option
// is omitted from the display list entirely.
type Option struct {
	Text     string       `json:"text"`
	Next     NodeID       `json:"next"`
	Cond     *Condition   `json:"cond,omitempty"`
	FailText string       `json:"fail_text,omitempty"`
	Branches []Transition `json:"branches,omitempty"`
}

// Node is one addressable unit of dialog.
type Node struct {
	ID         NodeID       `json:"id"`
	Next       NodeID       `json:"next"`
	Expression int          `json:"expression,omitempty"`
	Text       string       `json:"text"`
	Events     []Event      `json:"events,omitempty"`
	Branches   []Transition `json:"branches,omitempty"`
	Options    []Option     `json:"options,omitempty"`
}

// Definition is the full authored document for one dialog id in one
// language. It is immutable after load.
type Definition struct {
	Name         string       `json:"name"`
	Version      int          `json:"version"`
	Description  string       `json:"description,omitempty"`
	Entries      []Transition `json:"entries,omitempty"`
	DefaultEntry NodeID       `json:"default_entry"`
	Nodes        []Node       `json:"nodes"`

	// Identity, assigned by the loader. Not part of the document body.
	SourceID int    `json:"-"`
	Language string `json:"-"`

	byID map[NodeID]*Node
}

var (
	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("dialog: duplicate node id")
	// ErrBadNodeID is returned for an authored id <= 0.
	ErrBadNodeID = errors.New("dialog: node id must be positive")
)

// buildIndex validates node ids and builds the lookup index.
func (d *Definition) buildIndex() error {
	d.byID = make(map[NodeID]*Node, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID <= 0 {
			return fmt.Errorf("%w: %d", ErrBadNodeID, n.ID)
		}
		if _, exists := d.byID[n.ID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
		}
		d.byID[n.ID] = n
	}
	return nil
}

// Node returns a node by id, or nil if not found.
func (d *Definition) Node(id NodeID) *Node {
	if d == nil || d.byID == nil {
		return nil
	}
	return d.byID[id]
}
