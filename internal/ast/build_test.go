package ast

import (
	"errors"
	"strings"
	"testing"

	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/document"
)

func buildSource(t *testing.T, src string) (*ThemeFamily, error) {
	t.Helper()
	root, err := document.Parse("test.huetheme", []byte(src))
	if err != nil {
		t.Fatalf("parsing test source: %v", err)
	}
	return Build(root)
}

const validSource = `
meta {
  name   = "Test Family"
  author = "Tester"
}

palette {
  white = "#ffffff"
  mist  = "white"

  color "grey" {
    base   = "white"
    darken = 0.5
  }
}

common {
  modifier {
    style = ["border"]
    color = "grey"
  }
}

theme "Test Dark" {
  appearance = "dark"

  modifier {
    style  = ["text", "editor.background"]
    syntax = ["keyword"]
    color {
      base  = "grey"
      alpha = 0.5
    }
    font_weight = 700
    font_style  = "italic"
  }

  player {
    cursor     = "white"
    background {
      base    = "grey"
      lighten = 0.2
    }
    selection = "#aabbcc44"
  }
}
`

func TestBuildValid(t *testing.T) {
	family, err := buildSource(t, validSource)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if family.Meta.Name != "Test Family" || family.Meta.Author != "Tester" {
		t.Errorf("meta = %+v", family.Meta)
	}
	if family.Palette.Len() != 3 {
		t.Errorf("palette has %d entries, want 3", family.Palette.Len())
	}
	if family.Common == nil {
		t.Fatal("common theme missing")
	}
	if len(family.Common.Modifiers) != 1 {
		t.Fatalf("common has %d modifiers, want 1", len(family.Common.Modifiers))
	}

	if len(family.Themes) != 1 {
		t.Fatalf("got %d themes, want 1", len(family.Themes))
	}
	theme := family.Themes[0]
	if theme.Name != "Test Dark" || theme.Appearance != Dark {
		t.Errorf("theme = %q/%v", theme.Name, theme.Appearance)
	}

	if len(theme.Modifiers) != 1 {
		t.Fatalf("got %d modifiers, want 1", len(theme.Modifiers))
	}
	mod := theme.Modifiers[0]
	wantTargets := []Path{
		{Kind: StylePath, Key: "text"},
		{Kind: StylePath, Key: "editor.background"},
		{Kind: SyntaxPath, Key: "keyword"},
	}
	if len(mod.Targets) != len(wantTargets) {
		t.Fatalf("targets = %v, want %v", mod.Targets, wantTargets)
	}
	for i, want := range wantTargets {
		if mod.Targets[i] != want {
			t.Errorf("target[%d] = %v, want %v", i, mod.Targets[i], want)
		}
	}

	if mod.Action.Color == nil || mod.Action.Color.Ref != "grey" {
		t.Errorf("action color = %+v, want grey reference", mod.Action.Color)
	}
	if len(mod.Action.Color.Ops) != 1 || mod.Action.Color.Ops[0].Kind != color.OpAlpha {
		t.Errorf("action color ops = %+v, want single alpha op", mod.Action.Color.Ops)
	}
	if mod.Action.FontWeight == nil || *mod.Action.FontWeight != 700 {
		t.Errorf("font_weight = %v, want 700", mod.Action.FontWeight)
	}
	if mod.Action.FontStyle == nil || *mod.Action.FontStyle != "italic" {
		t.Errorf("font_style = %v, want italic", mod.Action.FontStyle)
	}

	if len(theme.Players) != 1 {
		t.Fatalf("got %d players, want 1", len(theme.Players))
	}
	player := theme.Players[0]
	if player.Cursor == nil || player.Cursor.Ref != "white" {
		t.Errorf("player cursor = %+v", player.Cursor)
	}
	if player.Background == nil || len(player.Background.Ops) != 1 || player.Background.Ops[0].Kind != color.OpLighten {
		t.Errorf("player background = %+v, want grey with lighten op", player.Background)
	}
	if player.Selection == nil || player.Selection.IsRef() {
		t.Errorf("player selection = %+v, want hex literal", player.Selection)
	}
}

func TestBuildModifierOpOrder(t *testing.T) {
	// Modifier attributes must be collected in source order, not map order.
	family, err := buildSource(t, `
meta {
  name   = "T"
  author = "A"
}
palette {
  color "x" {
    base       = "#808080"
    hue_shift  = 30
    darken     = 0.2
    saturate   = 0.1
    desaturate = 0.3
  }
}
`)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	expr, ok := family.Palette.Get("x")
	if !ok {
		t.Fatal("palette entry x missing")
	}
	want := []color.OpKind{color.OpHueShift, color.OpDarken, color.OpSaturate, color.OpDesaturate}
	if len(expr.Ops) != len(want) {
		t.Fatalf("ops = %+v, want %d entries", expr.Ops, len(want))
	}
	for i, kind := range want {
		if expr.Ops[i].Kind != kind {
			t.Errorf("op[%d] = %v, want %v", i, expr.Ops[i].Kind, kind)
		}
	}
}

func TestBuildStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantPath string
	}{
		{
			"missing meta",
			`palette {}`,
			"",
		},
		{
			"missing palette",
			`meta {
  name   = "T"
  author = "A"
}`,
			"",
		},
		{
			"meta missing author",
			`meta { name = "T" }
palette {}`,
			"meta",
		},
		{
			"unknown top-level block",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
themes "X" {}`,
			"themes",
		},
		{
			"theme without label",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme { appearance = "dark" }`,
			"theme",
		},
		{
			"theme missing appearance",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme "X" {}`,
			`theme "X"`,
		},
		{
			"bad appearance",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme "X" { appearance = "dim" }`,
			`theme "X" > appearance`,
		},
		{
			"color block without base",
			`meta {
  name   = "T"
  author = "A"
}
palette {
  color "x" { darken = 0.5 }
}`,
			`palette > color "x"`,
		},
		{
			"unknown modifier op",
			`meta {
  name   = "T"
  author = "A"
}
palette {
  color "x" {
    base    = "#ffffff"
    sharpen = 0.5
  }
}`,
			`palette > color "x" > sharpen`,
		},
		{
			"duplicate palette entry",
			`meta {
  name   = "T"
  author = "A"
}
palette {
  x = "#ffffff"
  color "x" { base = "#000000" }
}`,
			`palette > color "x"`,
		},
		{
			"modifier unknown attribute",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme "X" {
  appearance = "dark"
  modifier { weight = 700 }
}`,
			`theme "X" > modifier > weight`,
		},
		{
			"font_weight out of range",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme "X" {
  appearance = "dark"
  modifier {
    style       = ["text"]
    font_weight = 70000
  }
}`,
			`theme "X" > modifier > font_weight`,
		},
		{
			"conflicting color forms",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme "X" {
  appearance = "dark"
  modifier {
    style = ["text"]
    color = "#ffffff"
    color { base = "#000000" }
  }
}`,
			`theme "X" > modifier > color`,
		},
		{
			"player unknown entry",
			`meta {
  name   = "T"
  author = "A"
}
palette {}
theme "X" {
  appearance = "dark"
  player { caret = "#ffffff" }
}`,
			`theme "X" > player > caret`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildSource(t, tt.src)
			var structural *StructuralError
			if !errors.As(err, &structural) {
				t.Fatalf("Build() error = %v, want StructuralError", err)
			}
			if !strings.HasPrefix(structural.Path, tt.wantPath) {
				t.Errorf("error path = %q, want prefix %q (message: %s)", structural.Path, tt.wantPath, structural.Msg)
			}
		})
	}
}

func TestBuildIsPure(t *testing.T) {
	// Building the same tree twice yields independent, equal families.
	root, err := document.Parse("test.huetheme", []byte(validSource))
	if err != nil {
		t.Fatal(err)
	}

	first, err := Build(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Themes) != len(second.Themes) || first.Meta != second.Meta {
		t.Error("repeated builds disagree")
	}
	first.Themes[0].Name = "mutated"
	if second.Themes[0].Name == "mutated" {
		t.Error("builds share mutable state")
	}
}
