package dialog

// Resolver computes initial, linear-advance, and option-selected node
// ids for a loaded definition. All three operations fail closed to
// Terminal rather than erroring; a resolved id <= 0 ends the dialog.
type Resolver struct {
	Eval *Evaluator
}

// DisplayOption is one entry of the filtered, display-ordered option
// list. Disabled entries are fail-text placeholders: they are shown
// bracketed and selecting them is a no-op.
type DisplayOption struct {
	Text     string
	Disabled bool
}

// ResolveInitial scans the ordered entry list; the first entry whose
// condition holds wins. With no match the authored default entry is
// used if positive, else node 1.
func (r *Resolver) ResolveInitial(def *Definition) NodeID {
	if def == nil {
		return Terminal
	}
	for i := range def.Entries {
		if r.Eval.Evaluate(def.Entries[i].Cond) {
			return def.Entries[i].Next
		}
	}
	if def.DefaultEntry > 0 {
		return def.DefaultEntry
	}
	return 1
}

// ResolveNext advances past the given node: the first matching
// next-condition wins, else the node's default next id. A missing node
// resolves to Terminal.
func (r *Resolver) ResolveNext(def *Definition, current NodeID) NodeID {
	node := def.Node(current)
	if node == nil {
		return Terminal
	}
	for i := range node.Branches {
		if r.Eval.Evaluate(node.Branches[i].Cond) {
			return node.Branches[i].Next
		}
	}
	return node.Next
}

// DisplayOptions builds the filtered option list for a node. The same
// filter runs at render time and at selection time; selection is by
// display index, so the two walks must agree exactly.
func (r *Resolver) DisplayOptions(node *Node) []DisplayOption {
	if node == nil {
		return nil
	}
	out := make([]DisplayOption, 0, len(node.Options))
	for i := range node.Options {
		opt := &node.Options[i]
		if r.Eval.Evaluate(opt.Cond) {
			out = append(out, DisplayOption{Text: opt.Text})
			continue
		}
		if opt.FailText != "" {
			out = append(out, DisplayOption{Text: "[" + opt.FailText + "]", Disabled: true})
		}
	}
	return out
}

// ResolveOptionTarget maps a selected display index back onto the
// authored option list by replaying the display filter, then resolves
// the chosen option's target (conditional branches first, then its
// default next id). A disabled fail-text entry resolves to Terminal; an
// index past the display list resolves to fallback.
func (r *Resolver) ResolveOptionTarget(def *Definition, current NodeID, selected int, fallback NodeID) NodeID {
	node := def.Node(current)
	if node == nil {
		return Terminal
	}
	displayIndex := -1
	for i := range node.Options {
		opt := &node.Options[i]
		visible := r.Eval.Evaluate(opt.Cond)
		if !visible && opt.FailText == "" {
			continue
		}
		displayIndex++
		if displayIndex != selected {
			continue
		}
		if !visible {
			return Terminal
		}
		for j := range opt.Branches {
			if r.Eval.Evaluate(opt.Branches[j].Cond) {
				return opt.Branches[j].Next
			}
		}
		return opt.Next
	}
	return fallback
}
