package dialog

import (
	"testing"

	"github.com/rs/zerolog"
)

type fakeState struct {
	vals  map[string]int
	reads int
}

func (s *fakeState) Value(id string) int {
	s.reads++
	return s.vals[id]
}

func (s *fakeState) SetValue(id string, v int) {
	if s.vals == nil {
		s.vals = map[string]int{}
	}
	s.vals[id] = v
}

type fakeInventory struct {
	counts map[string]int
}

func (f *fakeInventory) OwnedCount(ref string) int { return f.counts[ref] }

func (f *fakeInventory) Add(ref string, qty int) {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[ref] += qty
}

func (f *fakeInventory) Remove(ref string, qty int) bool {
	if f.counts[ref] < qty {
		return false
	}
	f.counts[ref] -= qty
	return true
}

type fakeCatalog map[int]string

func (f fakeCatalog) Item(id int) (string, bool) {
	ref, ok := f[id]
	return ref, ok
}

func newTestEvaluator(state *fakeState, inv *fakeInventory, cat fakeCatalog) *Evaluator {
	return &Evaluator{State: state, Items: inv, Catalog: cat, Log: zerolog.Nop()}
}

func TestEvaluateNoConstraint(t *testing.T) {
	e := newTestEvaluator(&fakeState{}, nil, nil)

	cases := []struct {
		name string
		cond *Condition
	}{
		{"nil condition", nil},
		{"missing kind", &Condition{Target: "gold", Value: "5", Op: OpEqual}},
		{"missing value", &Condition{Kind: CondState, Target: "gold", Op: OpEqual}},
	}
	for _, tc := range cases {
		if !e.Evaluate(tc.cond) {
			t.Errorf("%s: expected true", tc.name)
		}
	}
}

func TestEvaluateUnknownKind(t *testing.T) {
	e := newTestEvaluator(&fakeState{}, nil, nil)
	if e.Evaluate(&Condition{Kind: "weather", Target: "rain", Value: "1"}) {
		t.Error("unknown kind should evaluate false")
	}
}

func TestEvaluateMissingCollaborator(t *testing.T) {
	e := &Evaluator{Log: zerolog.Nop()}
	if e.Evaluate(&Condition{Kind: CondState, Target: "gold", Value: "1"}) {
		t.Error("state condition with no state store should be false")
	}
	if e.Evaluate(&Condition{Kind: CondOwned, Target: "7", Value: "1"}) {
		t.Error("owned condition with no inventory should be false")
	}
}

func TestEvaluateUnparsableValue(t *testing.T) {
	e := newTestEvaluator(&fakeState{vals: map[string]int{"gold": 5}}, nil, nil)
	if e.Evaluate(&Condition{Kind: CondState, Target: "gold", Value: "lots"}) {
		t.Error("non-numeric comparison value should be false")
	}
}

func TestEvaluateOperatorTable(t *testing.T) {
	e := newTestEvaluator(&fakeState{vals: map[string]int{"n": 5}}, nil, nil)

	cases := []struct {
		op    CompareOp
		value string
		want  bool
	}{
		{OpEqual, "5", true},
		{OpEqual, "4", false},
		{"==", "5", true},
		{OpNotEqual, "5", false},
		{OpNotEqual, "4", true},
		{"!=", "5", false},
		{OpGreaterThan, "4", true},
		{OpGreaterThan, "5", false},
		{">", "4", true},
		{OpGreaterEqual, "5", true},
		{OpGreaterEqual, "6", false},
		{">=", "5", true},
		{OpLessThan, "6", true},
		{OpLessThan, "5", false},
		{"<", "6", true},
		{OpLessEqual, "5", true},
		{OpLessEqual, "4", false},
		{"<=", "5", true},
	}
	for _, tc := range cases {
		got := e.Evaluate(&Condition{Kind: CondState, Target: "n", Value: tc.value, Op: tc.op})
		if got != tc.want {
			t.Errorf("5 %s %s: expected %v, got %v", tc.op, tc.value, tc.want, got)
		}
	}
}

func TestEvaluateUnknownOperatorActsAsEqual(t *testing.T) {
	e := newTestEvaluator(&fakeState{vals: map[string]int{"n": 5}}, nil, nil)
	if !e.Evaluate(&Condition{Kind: CondState, Target: "n", Value: "5", Op: "APPROX"}) {
		t.Error("unknown operator should compare as EQUAL (5 == 5)")
	}
	if e.Evaluate(&Condition{Kind: CondState, Target: "n", Value: "4", Op: "APPROX"}) {
		t.Error("unknown operator should compare as EQUAL (5 != 4)")
	}
}

func TestEvaluateOwnedCount(t *testing.T) {
	inv := &fakeInventory{counts: map[string]int{"potion": 3}}
	cat := fakeCatalog{42: "potion"}
	e := newTestEvaluator(nil, inv, cat)

	if !e.Evaluate(&Condition{Kind: CondOwned, Target: "42", Value: "3", Op: OpGreaterEqual}) {
		t.Error("expected owned count 3 >= 3")
	}
	if e.Evaluate(&Condition{Kind: CondOwned, Target: "42", Value: "4", Op: OpGreaterEqual}) {
		t.Error("expected owned count 3 < 4")
	}
	if e.Evaluate(&Condition{Kind: CondOwned, Target: "99", Value: "1"}) {
		t.Error("item missing from catalog should be false")
	}
	if e.Evaluate(&Condition{Kind: CondOwned, Target: "potion", Value: "1"}) {
		t.Error("non-numeric item id should be false")
	}
}

func TestEvaluateAllModes(t *testing.T) {
	e := newTestEvaluator(&fakeState{vals: map[string]int{"a": 1, "b": 0}}, nil, nil)

	condTrue := Condition{Kind: CondState, Target: "a", Value: "1"}
	condFalse := Condition{Kind: CondState, Target: "b", Value: "1"}

	if !e.EvaluateAll(nil, ModeAll) || !e.EvaluateAll(nil, ModeAny) {
		t.Error("empty list should be true in both modes")
	}
	if e.EvaluateAll([]Condition{condTrue, condFalse}, ModeAll) {
		t.Error("AND with one false should be false")
	}
	if !e.EvaluateAll([]Condition{condFalse, condTrue}, ModeAny) {
		t.Error("OR with one true should be true")
	}
	if e.EvaluateAll([]Condition{condFalse, condFalse}, ModeAny) {
		t.Error("OR with all false should be false")
	}
}

func TestEvaluateAllShortCircuits(t *testing.T) {
	state := &fakeState{vals: map[string]int{"a": 0, "b": 1}}
	e := newTestEvaluator(state, nil, nil)

	// AND stops at the first false.
	e.EvaluateAll([]Condition{
		{Kind: CondState, Target: "a", Value: "1"},
		{Kind: CondState, Target: "b", Value: "1"},
	}, ModeAll)
	if state.reads != 1 {
		t.Errorf("AND should stop after first false, read %d conditions", state.reads)
	}

	// OR stops at the first true.
	state.reads = 0
	e.EvaluateAll([]Condition{
		{Kind: CondState, Target: "b", Value: "1"},
		{Kind: CondState, Target: "a", Value: "1"},
	}, ModeAny)
	if state.reads != 1 {
		t.Errorf("OR should stop after first true, read %d conditions", state.reads)
	}
}
