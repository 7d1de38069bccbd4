package dialog

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Dispatcher executes the side-effecting events attached to a line.
// Events run strictly after the line's text is fully revealed and in
// authored order; a bad event is a logged no-op and never blocks the
// events after it.
type Dispatcher struct {
	State   StateStore
	Items   InventoryStore
	Catalog ItemCatalog
	Eval    *Evaluator
	Log     zerolog.Logger
}

// ExecuteLineEvents runs each event whose gating condition holds.
func (d *Dispatcher) ExecuteLineEvents(events []Event) {
	for i := range events {
		ev := &events[i]
		if !d.Eval.Evaluate(ev.Cond) {
			continue
		}
		d.execute(ev)
	}
}

func (d *Dispatcher) execute(ev *Event) {
	switch ev.Kind {
	case EventSetState:
		if d.State == nil {
			d.Log.Warn().Str("id", ev.Arg1).Msg("set_state event with no state store")
			return
		}
		v, err := strconv.Atoi(strings.TrimSpace(ev.Arg2))
		if err != nil {
			d.Log.Warn().Str("id", ev.Arg1).Str("value", ev.Arg2).Msg("set_state value not numeric")
			return
		}
		d.State.SetValue(ev.Arg1, v)
	case EventAddItem, EventRemoveItem:
		if d.Items == nil || d.Catalog == nil {
			d.Log.Warn().Str("item", ev.Arg1).Msg("inventory event with no inventory attached")
			return
		}
		itemID, err := strconv.Atoi(strings.TrimSpace(ev.Arg1))
		if err != nil {
			d.Log.Warn().Str("item", ev.Arg1).Msg("inventory event item id not numeric")
			return
		}
		qty, err := strconv.Atoi(strings.TrimSpace(ev.Arg2))
		if err != nil {
			d.Log.Warn().Str("item", ev.Arg1).Str("qty", ev.Arg2).Msg("inventory event quantity not numeric")
			return
		}
		ref, ok := d.Catalog.Item(itemID)
		if !ok {
			d.Log.Warn().Int("item", itemID).Msg("inventory event item not in catalog")
			return
		}
		if ev.Kind == EventAddItem {
			d.Items.Add(ref, qty)
		} else if !d.Items.Remove(ref, qty) {
			d.Log.Warn().Str("ref", ref).Int("qty", qty).Msg("remove_item had too few owned")
		}
	default:
		d.Log.Warn().Str("kind", string(ev.Kind)).Msg("unknown event kind")
	}
}
