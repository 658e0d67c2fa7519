package palette

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/jsvensson/hueforge/internal/color"
)

func mustHex(t *testing.T, s string) color.Color {
	t.Helper()
	c, err := color.ParseHex(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestResolveLiteralIdentity(t *testing.T) {
	p := New()
	white := mustHex(t, "#ffffff")
	if err := p.Add("white", Lit(white)); err != nil {
		t.Fatal(err)
	}

	resolved, err := p.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := resolved["white"]; got != white {
		t.Errorf("resolved white = %v, want exactly %v", got, white)
	}
}

func TestResolveReferenceChain(t *testing.T) {
	p := New()
	if err := p.Add("white", Lit(mustHex(t, "#ffffff"))); err != nil {
		t.Fatal(err)
	}
	if err := p.Add("grey", Expr{Ref: "white", Ops: []color.Op{{Kind: color.OpDarken, Value: 0.5}}}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add("dim", Expr{Ref: "grey", Ops: []color.Op{{Kind: color.OpAlpha, Value: 0.5}}}); err != nil {
		t.Fatal(err)
	}

	resolved, err := p.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got := resolved["grey"].Hex(); got != "#636363ff" {
		t.Errorf("grey = %s, want #636363ff", got)
	}
	if got := resolved["dim"].Hex(); got != "#63636380" {
		t.Errorf("dim = %s, want #63636380", got)
	}
}

func TestResolveDeterministicUnderPermutation(t *testing.T) {
	// Build the same dependency chain with entries added in random orders;
	// every resolved value must be identical.
	build := func(order []string) *Palette {
		exprs := map[string]Expr{
			"base":  Lit(mustHex(t, "#191724")),
			"text":  {Ref: "base", Ops: []color.Op{{Kind: color.OpLighten, Value: 0.8}}},
			"muted": {Ref: "text", Ops: []color.Op{{Kind: color.OpDesaturate, Value: 0.3}}},
			"rose":  Lit(mustHex(t, "#eb6f92")),
			"love":  {Ref: "rose", Ops: []color.Op{{Kind: color.OpHueShift, Value: 15}}},
		}
		p := New()
		for _, name := range order {
			if err := p.Add(name, exprs[name]); err != nil {
				t.Fatal(err)
			}
		}
		return p
	}

	names := []string{"base", "text", "muted", "rose", "love"}
	reference, err := build(names).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]string(nil), names...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := build(shuffled).Resolve()
		if err != nil {
			t.Fatalf("Resolve() with order %v: %v", shuffled, err)
		}
		for name, want := range reference {
			if got[name] != want {
				t.Errorf("order %v: %s = %v, want %v", shuffled, name, got[name], want)
			}
		}
	}
}

func TestResolveCycle(t *testing.T) {
	p := New()
	if err := p.Add("a", Ref("b")); err != nil {
		t.Fatal(err)
	}
	if err := p.Add("b", Ref("a")); err != nil {
		t.Fatal(err)
	}

	_, err := p.Resolve()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Resolve() error = %v, want CycleError", err)
	}
	if len(cycleErr.Cycle) != 3 {
		t.Fatalf("cycle = %v, want three entries (closed two-cycle)", cycleErr.Cycle)
	}
	if cycleErr.Cycle[0] != cycleErr.Cycle[len(cycleErr.Cycle)-1] {
		t.Errorf("cycle %v is not closed", cycleErr.Cycle)
	}
}

func TestResolveSelfCycle(t *testing.T) {
	p := New()
	if err := p.Add("a", Expr{Ref: "a", Ops: []color.Op{{Kind: color.OpDarken, Value: 0.1}}}); err != nil {
		t.Fatal(err)
	}

	_, err := p.Resolve()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Resolve() error = %v, want CycleError", err)
	}
	want := []string{"a", "a"}
	if len(cycleErr.Cycle) != len(want) || cycleErr.Cycle[0] != "a" || cycleErr.Cycle[1] != "a" {
		t.Errorf("cycle = %v, want %v", cycleErr.Cycle, want)
	}
}

func TestResolveCycleBoundedOnLargeGraph(t *testing.T) {
	// A long chain ending in a cycle must fail without unbounded recursion.
	p := New()
	const n = 10000
	for i := 0; i < n; i++ {
		if err := p.Add(fmt.Sprintf("c%d", i), Ref(fmt.Sprintf("c%d", i+1))); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.Add(fmt.Sprintf("c%d", n), Ref("c0")); err != nil {
		t.Fatal(err)
	}

	_, err := p.Resolve()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Resolve() error = %v, want CycleError", err)
	}
}

func TestResolveUnknownReference(t *testing.T) {
	p := New()
	if err := p.Add("grey", Ref("whtie")); err != nil {
		t.Fatal(err)
	}

	_, err := p.Resolve()
	var unknownErr *UnknownReferenceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Resolve() error = %v, want UnknownReferenceError", err)
	}
	if unknownErr.Name != "whtie" || unknownErr.ReferencedBy != "grey" {
		t.Errorf("error = %+v, want Name=whtie ReferencedBy=grey", unknownErr)
	}
}

func TestAddDuplicate(t *testing.T) {
	p := New()
	if err := p.Add("white", Lit(mustHex(t, "#ffffff"))); err != nil {
		t.Fatal(err)
	}
	if err := p.Add("white", Lit(mustHex(t, "#fffffe"))); err == nil {
		t.Error("Add() accepted a duplicate entry")
	}
}

func TestEval(t *testing.T) {
	p := New()
	if err := p.Add("white", Lit(mustHex(t, "#ffffff"))); err != nil {
		t.Fatal(err)
	}
	resolved, err := p.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolved.Eval(Expr{Ref: "white", Ops: []color.Op{{Kind: color.OpAlpha, Value: 0.5}}})
	if err != nil {
		t.Fatalf("Eval() error: %v", err)
	}
	if hex := got.Hex(); hex != "#ffffff80" {
		t.Errorf("Eval() = %s, want #ffffff80", hex)
	}

	_, err = resolved.Eval(Ref("missing"))
	var unknownErr *UnknownReferenceError
	if !errors.As(err, &unknownErr) {
		t.Errorf("Eval() error = %v, want UnknownReferenceError", err)
	}
}

func TestParseBase(t *testing.T) {
	tests := []struct {
		input   string
		wantRef bool
	}{
		{"#eb6f92", false},
		{"#eb6f9280", false},
		{"white", true},
		{"bright_black", true},
	}

	for _, tt := range tests {
		expr, err := ParseBase(tt.input)
		if err != nil {
			t.Fatalf("ParseBase(%q): %v", tt.input, err)
		}
		if expr.IsRef() != tt.wantRef {
			t.Errorf("ParseBase(%q).IsRef() = %v, want %v", tt.input, expr.IsRef(), tt.wantRef)
		}
	}
}
