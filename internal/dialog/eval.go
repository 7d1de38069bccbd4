package dialog

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// StateStore is the external key-value game state collaborator.
type StateStore interface {
	Value(id string) int
	SetValue(id string, v int)
}

// InventoryStore is the external inventory collaborator.
type InventoryStore interface {
	OwnedCount(ref string) int
	Add(ref string, qty int)
	Remove(ref string, qty int) bool
}

// ItemCatalog maps a numeric item id to an item handle usable with the
// inventory store. The catalog shape beyond this lookup is out of scope.
type ItemCatalog interface {
	Item(id int) (string, bool)
}

// Mode selects how EvaluateAll combines a condition list.
type Mode int

const (
	// ModeAll is logical AND, short-circuiting on the first false.
	ModeAll Mode = iota
	// ModeAny is logical OR, short-circuiting on the first true.
	ModeAny
)

// Evaluator resolves conditions against the collaborator stores.
// Every failure path collapses to a safe boolean; Evaluate never panics.
type Evaluator struct {
	State   StateStore
	Items   InventoryStore
	Catalog ItemCatalog
	Log     zerolog.Logger
}

// Evaluate returns the truth value of a single condition.
//
// An absent condition, absent kind, or absent comparison value is no
// constraint and evaluates true. An unknown kind, a missing
// collaborator, or an unparsable numeric operand evaluates false.
func (e *Evaluator) Evaluate(c *Condition) bool {
	if c == nil || c.Kind == "" || c.Value == "" {
		return true
	}

	want, err := strconv.Atoi(strings.TrimSpace(c.Value))
	if err != nil {
		e.Log.Warn().Str("target", c.Target).Str("value", c.Value).Msg("condition value not numeric")
		return false
	}

	var got int
	switch c.Kind {
	case CondState:
		if e.State == nil {
			e.Log.Warn().Str("target", c.Target).Msg("condition needs state store, none attached")
			return false
		}
		got = e.State.Value(c.Target)
	case CondOwned:
		if e.Items == nil || e.Catalog == nil {
			e.Log.Warn().Str("target", c.Target).Msg("condition needs inventory, none attached")
			return false
		}
		itemID, err := strconv.Atoi(strings.TrimSpace(c.Target))
		if err != nil {
			e.Log.Warn().Str("target", c.Target).Msg("owned condition target not a numeric item id")
			return false
		}
		ref, ok := e.Catalog.Item(itemID)
		if !ok {
			e.Log.Warn().Int("item", itemID).Msg("owned condition item not in catalog")
			return false
		}
		got = e.Items.OwnedCount(ref)
	default:
		e.Log.Warn().Str("kind", string(c.Kind)).Msg("unknown condition kind")
		return false
	}

	return e.compare(got, want, c.Op)
}

// EvaluateAll combines an ordered condition list under the given mode.
// An empty list evaluates true in either mode.
func (e *Evaluator) EvaluateAll(conds []Condition, mode Mode) bool {
	if len(conds) == 0 {
		return true
	}
	for i := range conds {
		ok := e.Evaluate(&conds[i])
		if mode == ModeAny && ok {
			return true
		}
		if mode != ModeAny && !ok {
			return false
		}
	}
	return mode != ModeAny
}

func (e *Evaluator) compare(got, want int, op CompareOp) bool {
	switch normalizeOp(op) {
	case OpNotEqual:
		return got != want
	case OpGreaterThan:
		return got > want
	case OpGreaterEqual:
		return got >= want
	case OpLessThan:
		return got < want
	case OpLessEqual:
		return got <= want
	case OpEqual:
		return got == want
	default:
		// Unknown operators degrade to equality so traversal still terminates.
		e.Log.Warn().Str("op", string(op)).Msg("unknown comparison operator, treating as EQUAL")
		return got == want
	}
}

// normalizeOp maps symbolic aliases onto canonical operators. Unknown
// operators are returned unchanged for the caller to diagnose.
func normalizeOp(op CompareOp) CompareOp {
	switch op {
	case "==", "=", "", OpEqual:
		return OpEqual
	case "!=", "<>", OpNotEqual:
		return OpNotEqual
	case ">", OpGreaterThan:
		return OpGreaterThan
	case ">=", OpGreaterEqual:
		return OpGreaterEqual
	case "<", OpLessThan:
		return OpLessThan
	case "<=", OpLessEqual:
		return OpLessEqual
	}
	return op
}
