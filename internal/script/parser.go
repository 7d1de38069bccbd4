// Package script interprets the inline dialog markup language and turns
// a raw line into a timed sequence of buffer mutations.
//
// Directives have the form \name{param}; \del takes three parameters.
// Compilation is pure; pacing and the skip flag are applied by whoever
// runs the program.
package script

import (
	"strconv"
	"strings"
	"unicode"
)

// StepKind classifies one buffer-mutation step.
type StepKind int

const (
	// StepAppend reveals one rune at the end of the buffer.
	StepAppend StepKind = iota
	// StepErase removes the last rune from the buffer.
	StepErase
	// StepPause mutates nothing and only suspends.
	StepPause
	// StepBlink changes the cursor-blink period.
	StepBlink
)

// Step is one unit of the reveal sequence: a buffer mutation plus an
// optional suspension. Delay is in seconds; the skip flag turns it into
// a no-op without changing the mutation.
type Step struct {
	Kind   StepKind
	Ch     rune    // StepAppend
	Delay  float64 // suspension after the mutation
	Period float64 // StepBlink
}

// Options are the pacing defaults in effect when a line starts.
type Options struct {
	CharDelay   float64 // seconds per revealed rune
	BlinkPeriod float64 // cursor toggle period
}

// Program is the compiled step sequence for one line.
type Program struct {
	Steps []Step
}

// FinalText returns the buffer content after every step has run.
// Directive text never appears in it.
func (p Program) FinalText() string {
	var b []rune
	for _, s := range p.Steps {
		switch s.Kind {
		case StepAppend:
			b = append(b, s.Ch)
		case StepErase:
			if len(b) > 0 {
				b = b[:len(b)-1]
			}
		}
	}
	return string(b)
}

// Compile scans raw left to right and emits the step program.
//
// Malformed markup never fails compilation: a directive with no opening
// or closing brace emits the literal backslash and scanning resumes at
// the following rune; a known directive with a non-numeric parameter is
// consumed and ignored, as is an unknown directive name.
func Compile(raw string, opts Options) Program {
	c := compiler{runes: []rune(raw), speed: opts.CharDelay}
	c.run()
	return Program{Steps: c.steps}
}

type compiler struct {
	runes []rune
	pos   int
	speed float64
	steps []Step
}

func (c *compiler) run() {
	for c.pos < len(c.runes) {
		ch := c.runes[c.pos]
		if ch != '\\' {
			c.append(ch)
			c.pos++
			continue
		}
		// Escaped backslash is a literal.
		if c.peek(1) == '\\' {
			c.append('\\')
			c.pos += 2
			continue
		}
		if !c.directive() {
			c.append('\\')
			c.pos++
		}
	}
}

func (c *compiler) peek(ahead int) rune {
	if c.pos+ahead >= len(c.runes) {
		return 0
	}
	return c.runes[c.pos+ahead]
}

func (c *compiler) append(ch rune) {
	c.steps = append(c.steps, Step{Kind: StepAppend, Ch: ch, Delay: c.speed})
}

// directive tries to consume a \name{...} form at the current position.
// It reports false, consuming nothing, when the markup is malformed.
func (c *compiler) directive() bool {
	i := c.pos + 1
	start := i
	for i < len(c.runes) && unicode.IsLetter(c.runes[i]) {
		i++
	}
	if i == start || i >= len(c.runes) || c.runes[i] != '{' {
		return false
	}
	name := string(c.runes[start:i])

	argc := 1
	if name == "del" {
		argc = 3
	}
	args := make([]string, 0, argc)
	for n := 0; n < argc; n++ {
		if i >= len(c.runes) || c.runes[i] != '{' {
			return false
		}
		end := indexRune(c.runes, i+1, '}')
		if end < 0 {
			return false
		}
		args = append(args, string(c.runes[i+1:end]))
		i = end + 1
	}

	c.emit(name, args)
	c.pos = i
	return true
}

func (c *compiler) emit(name string, args []string) {
	num := func(s string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v, err == nil && v >= 0
	}

	switch name {
	case "stop":
		if v, ok := num(args[0]); ok {
			c.steps = append(c.steps, Step{Kind: StepPause, Delay: v})
		}
	case "speed":
		if v, ok := num(args[0]); ok {
			c.speed = v
		}
	case "blink":
		if v, ok := num(args[0]); ok {
			c.steps = append(c.steps, Step{Kind: StepBlink, Period: v})
		}
	case "del":
		eraseDelay, ok := num(args[0])
		if !ok {
			return
		}
		for _, ch := range args[1] {
			c.append(ch)
		}
		for range args[1] {
			c.steps = append(c.steps, Step{Kind: StepErase, Delay: eraseDelay})
		}
		for _, ch := range args[2] {
			c.append(ch)
		}
	}
	// Unknown directive names are consumed and dropped.
}

func indexRune(runes []rune, from int, want rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == want {
			return i
		}
	}
	return -1
}
