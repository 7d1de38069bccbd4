package dialog

import "testing"

func mustDefinition(t *testing.T, def *Definition) *Definition {
	t.Helper()
	if err := def.buildIndex(); err != nil {
		t.Fatalf("buildIndex: %v", err)
	}
	return def
}

func condEq(target, value string) *Condition {
	return &Condition{Kind: CondState, Target: target, Value: value, Op: OpEqual}
}

func newTestResolver(vals map[string]int) (*Resolver, *fakeState) {
	state := &fakeState{vals: vals}
	return &Resolver{Eval: newTestEvaluator(state, nil, nil)}, state
}

func TestResolveInitialFirstMatchWins(t *testing.T) {
	def := mustDefinition(t, &Definition{
		Entries: []Transition{
			{Cond: condEq("flag", "1"), Next: 10}, // false
			{Cond: condEq("flag", "2"), Next: 20}, // true, wins
			{Cond: condEq("flag", "2"), Next: 30}, // true, never reached
		},
		DefaultEntry: 99,
		Nodes:        []Node{{ID: 10}, {ID: 20}, {ID: 30}, {ID: 99}},
	})
	r, _ := newTestResolver(map[string]int{"flag": 2})

	if got := r.ResolveInitial(def); got != 20 {
		t.Errorf("expected node 20, got %d", got)
	}
}

func TestResolveInitialFallsBackToDefault(t *testing.T) {
	def := mustDefinition(t, &Definition{
		Entries:      []Transition{{Cond: condEq("flag", "1"), Next: 10}},
		DefaultEntry: 7,
		Nodes:        []Node{{ID: 7}, {ID: 10}},
	})
	r, _ := newTestResolver(nil)

	if got := r.ResolveInitial(def); got != 7 {
		t.Errorf("expected default entry 7, got %d", got)
	}

	def.DefaultEntry = 0
	if got := r.ResolveInitial(def); got != 1 {
		t.Errorf("expected node 1 when default is not positive, got %d", got)
	}
}

func TestResolveNext(t *testing.T) {
	def := mustDefinition(t, &Definition{
		Nodes: []Node{
			{
				ID:   1,
				Next: 2,
				Branches: []Transition{
					{Cond: condEq("mood", "1"), Next: 5},
					{Cond: condEq("mood", "2"), Next: 6},
				},
			},
			{ID: 2}, {ID: 5}, {ID: 6},
		},
	})
	r, state := newTestResolver(map[string]int{"mood": 2})

	if got := r.ResolveNext(def, 1); got != 6 {
		t.Errorf("expected branch target 6, got %d", got)
	}

	state.vals["mood"] = 0
	if got := r.ResolveNext(def, 1); got != 2 {
		t.Errorf("expected default next 2, got %d", got)
	}

	if got := r.ResolveNext(def, 404); got != Terminal {
		t.Errorf("nonexistent node should resolve terminal, got %d", got)
	}
}

func optionNode() *Definition {
	return &Definition{
		Nodes: []Node{
			{
				ID:   1,
				Next: 2,
				Options: []Option{
					{Text: "A", Next: 11},
					{Text: "B", Next: 12, Cond: condEq("locked", "0"), FailText: "X"},
					{Text: "C", Next: 13, Branches: []Transition{
						{Cond: condEq("trust", "1"), Next: 31},
					}},
					{Text: "D", Next: 14, Cond: condEq("locked", "0")}, // hidden, no fail text
				},
			},
			{ID: 2}, {ID: 11}, {ID: 12}, {ID: 13}, {ID: 14}, {ID: 31},
		},
	}
}

func TestDisplayOptionsFilter(t *testing.T) {
	def := mustDefinition(t, optionNode())
	r, _ := newTestResolver(map[string]int{"locked": 1})

	got := r.DisplayOptions(def.Node(1))
	if len(got) != 3 {
		t.Fatalf("expected 3 display options, got %d", len(got))
	}
	if got[0].Text != "A" || got[0].Disabled {
		t.Errorf("entry 0: expected enabled A, got %+v", got[0])
	}
	if got[1].Text != "[X]" || !got[1].Disabled {
		t.Errorf("entry 1: expected disabled [X], got %+v", got[1])
	}
	if got[2].Text != "C" || got[2].Disabled {
		t.Errorf("entry 2: expected enabled C, got %+v", got[2])
	}
}

func TestResolveOptionTarget(t *testing.T) {
	def := mustDefinition(t, optionNode())
	r, state := newTestResolver(map[string]int{"locked": 1})

	// Display list is [A, "[X]", C]; D is omitted entirely.
	if got := r.ResolveOptionTarget(def, 1, 0, 2); got != 11 {
		t.Errorf("selecting A: expected 11, got %d", got)
	}
	if got := r.ResolveOptionTarget(def, 1, 1, 2); got != Terminal {
		t.Errorf("selecting disabled fail-text entry: expected terminal, got %d", got)
	}
	if got := r.ResolveOptionTarget(def, 1, 2, 2); got != 13 {
		t.Errorf("selecting C with no matching branch: expected default 13, got %d", got)
	}

	state.vals["trust"] = 1
	if got := r.ResolveOptionTarget(def, 1, 2, 2); got != 31 {
		t.Errorf("selecting C with matching branch: expected 31, got %d", got)
	}

	if got := r.ResolveOptionTarget(def, 1, 9, 2); got != 2 {
		t.Errorf("index past display list: expected fallback 2, got %d", got)
	}
	if got := r.ResolveOptionTarget(def, 404, 0, 2); got != Terminal {
		t.Errorf("nonexistent node: expected terminal, got %d", got)
	}
}

// The display list is recomputed from scratch at render time and at
// selection time. If external state changes between those two moments
// the selected entry silently diverges from what was shown. That is the
// engine's actual behavior; this test pins it down rather than hiding
// it behind a cached render.
func TestOptionIndexDivergesWhenStateChangesBetweenRenderAndSelect(t *testing.T) {
	def := mustDefinition(t, optionNode())
	r, state := newTestResolver(map[string]int{"locked": 1})

	rendered := r.DisplayOptions(def.Node(1))
	if len(rendered) != 3 || rendered[2].Text != "C" {
		t.Fatalf("unexpected rendered list: %+v", rendered)
	}

	// The player saw "[X]" at display index 1; picking it would be a
	// disabled no-op. Option B and D unlock after render but before
	// selection.
	state.vals["locked"] = 0

	// Selection-time filtering now puts a live B at index 1, so the
	// pick resolves B's target instead of the disabled no-op the player
	// was shown.
	if got := r.ResolveOptionTarget(def, 1, 1, 2); got != 12 {
		t.Errorf("divergence check: index 1 resolves to B's target 12, got %d", got)
	}
	reselected := r.DisplayOptions(def.Node(1))
	if len(reselected) == len(rendered) {
		t.Error("expected display list length to change after state change")
	}
}
