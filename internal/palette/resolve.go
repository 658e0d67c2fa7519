package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsvensson/hueforge/internal/color"
)

// UnknownReferenceError reports a reference to a name the palette does not
// define.
type UnknownReferenceError struct {
	Name string
	// ReferencedBy names the entry that held the dangling reference, when
	// known. Empty for use-site expressions outside the palette.
	ReferencedBy string
}

func (e *UnknownReferenceError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("could not find color %q in the palette (referenced by %q)", e.Name, e.ReferencedBy)
	}
	return fmt.Sprintf("could not find color %q in the palette", e.Name)
}

// CycleError reports a dependency cycle between palette entries. Cycle
// lists the names from the re-encountered entry back to itself, so the
// first and last element are equal.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 2 {
		return fmt.Sprintf("cyclic dependency in palette: %s directly depends on itself", e.Cycle[0])
	}
	return fmt.Sprintf("cyclic dependency in palette: %s", strings.Join(e.Cycle, " -> "))
}

// resolveState tracks per-entry progress during resolution.
type resolveState uint8

const (
	unvisited resolveState = iota
	inProgress
	done
)

// Resolve resolves every entry to a concrete color. Entries are walked as a
// directed graph with an explicit work stack and per-name state, so cycle
// detection is bounded by the number of entries and never depends on call
// stack depth. The result is independent of declaration order.
func (p *Palette) Resolve() (Resolved, error) {
	states := make(map[string]resolveState, len(p.entries))
	resolved := make(Resolved, len(p.entries))

	// Walk entries in sorted order so which error surfaces first is
	// deterministic; the resolved values themselves never depend on order.
	names := make([]string, len(p.names))
	copy(names, p.names)
	sort.Strings(names)

	for _, name := range names {
		if err := p.resolveEntry(name, states, resolved); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func (p *Palette) resolveEntry(root string, states map[string]resolveState, resolved Resolved) error {
	stack := []string{root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		if states[name] == done {
			stack = stack[:len(stack)-1]
			continue
		}

		expr, ok := p.entries[name]
		if !ok {
			// Only reachable via a reference: the root always exists.
			return &UnknownReferenceError{Name: name, ReferencedBy: stack[len(stack)-2]}
		}
		states[name] = inProgress

		if !expr.IsRef() {
			resolved[name] = color.Apply(expr.Lit, expr.Ops)
			states[name] = done
			stack = stack[:len(stack)-1]
			continue
		}

		dep := expr.Ref
		if base, ok := resolved[dep]; ok {
			resolved[name] = color.Apply(base, expr.Ops)
			states[name] = done
			stack = stack[:len(stack)-1]
			continue
		}

		if states[dep] == inProgress {
			return &CycleError{Cycle: cycleFrom(stack, dep)}
		}

		stack = append(stack, dep)
	}
	return nil
}

// cycleFrom extracts the cycle from the work stack: the slice from the
// first occurrence of dep to the top, closed by repeating dep.
func cycleFrom(stack []string, dep string) []string {
	for i, name := range stack {
		if name == dep {
			cycle := make([]string, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			return append(cycle, dep)
		}
	}
	// dep marked in-progress but absent from the stack cannot happen.
	return []string{dep, dep}
}
