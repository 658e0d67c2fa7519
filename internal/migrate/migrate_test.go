package migrate

import (
	"reflect"
	"testing"

	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/compose"
	"github.com/jsvensson/hueforge/internal/schema"
)

func hex(t *testing.T, s string) color.Color {
	t.Helper()
	c, err := color.ParseHex(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func strPtr(s string) *string { return &s }

func TestGeneratorDedupsAlphaVariants(t *testing.T) {
	gen := NewGenerator(HexNamer)

	opaque := gen.Expr(hex(t, "#eb6f92ff"))
	translucent := gen.Expr(hex(t, "#eb6f9280"))

	if opaque.Ref != translucent.Ref {
		t.Errorf("refs differ: %q vs %q", opaque.Ref, translucent.Ref)
	}
	if len(opaque.Ops) != 0 {
		t.Errorf("opaque expr has ops: %v", opaque.Ops)
	}
	if len(translucent.Ops) != 1 || translucent.Ops[0].Kind != color.OpAlpha {
		t.Fatalf("translucent expr ops = %v, want one alpha op", translucent.Ops)
	}

	p := gen.Palette()
	if p.Len() != 1 {
		t.Errorf("palette has %d entries, want 1", p.Len())
	}
	entry, ok := p.Get(opaque.Ref)
	if !ok {
		t.Fatalf("palette entry %q missing", opaque.Ref)
	}
	if !entry.Lit.Opaque().Equal(hex(t, "#eb6f92ff")) {
		t.Errorf("palette entry = %s, want opaque base", entry.Lit.Hex())
	}
}

func TestGeneratorSuffixesCollidingNames(t *testing.T) {
	constant := func(color.Color) string { return "accent" }
	gen := NewGenerator(constant)

	first := gen.Expr(hex(t, "#eb6f92"))
	second := gen.Expr(hex(t, "#31748f"))
	again := gen.Expr(hex(t, "#eb6f92"))

	if first.Ref != "accent" {
		t.Errorf("first name = %q", first.Ref)
	}
	if second.Ref != "accent-2" {
		t.Errorf("second name = %q", second.Ref)
	}
	if again.Ref != first.Ref {
		t.Errorf("repeat feed renamed the color: %q", again.Ref)
	}
}

func TestDefaultNamerKnownColors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#ff0000", "red"},
		{"#ffffff", "white"},
		{"#000000", "black"},
		{"#008080", "teal"},
	}
	for _, tt := range tests {
		if got := DefaultNamer(hex(t, tt.in)); got != tt.want {
			t.Errorf("DefaultNamer(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBucketNamer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#000000", "black"},
		{"#ffffff", "white"},
		{"#808080", "grey"},
		{"#ff0000", "red"},
	}
	for _, tt := range tests {
		if got := BucketNamer(hex(t, tt.in)); got != tt.want {
			t.Errorf("BucketNamer(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// migrationInput is a two-theme family with shared entries (hoisted to the
// common theme), per-theme differences, a translucent color and players.
func migrationInput() *schema.ThemeFamily {
	weight := uint16(700)
	return &schema.ThemeFamily{
		Name:   "Rose",
		Author: "Somebody",
		Themes: []schema.Theme{
			{
				Name:       "Rose Dark",
				Appearance: "dark",
				Style: schema.Style{
					Colors: map[string]*string{
						"text":   strPtr("#e0def4ff"),
						"border": strPtr("#e0def480"),
					},
					Syntax: map[string]schema.Syntax{
						"keyword": {Color: strPtr("#31748fff"), FontWeight: &weight},
						"comment": {Color: strPtr("#6e6a86ff"), FontStyle: strPtr("italic")},
					},
				},
				Players: []schema.Player{
					{Cursor: strPtr("#eb6f92ff")},
				},
			},
			{
				Name:       "Rose Light",
				Appearance: "light",
				Style: schema.Style{
					Colors: map[string]*string{
						"text":   strPtr("#575279ff"),
						"border": strPtr("#e0def480"),
					},
					Syntax: map[string]schema.Syntax{
						"keyword": {Color: strPtr("#31748fff"), FontWeight: &weight},
						"comment": {Color: strPtr("#9893a5ff"), FontStyle: strPtr("italic")},
					},
				},
				Players: []schema.Player{
					{Cursor: strPtr("#eb6f92ff")},
				},
			},
		},
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	input := migrationInput()

	family, err := Migrate(input)
	if err != nil {
		t.Fatal(err)
	}
	composed, err := compose.Compose(family)
	if err != nil {
		t.Fatal(err)
	}
	output := schema.FromComposed(composed)

	if !reflect.DeepEqual(input, output) {
		t.Errorf("migrated family does not reproduce its input\n in: %+v\nout: %+v", input, output)
	}
}

func TestMigrateHoistsSharedEntries(t *testing.T) {
	family, err := Migrate(migrationInput())
	if err != nil {
		t.Fatal(err)
	}

	if family.Common == nil {
		t.Fatal("no common theme extracted")
	}

	// keyword color and weight, comment italic, the border color and the
	// identical player list are shared by both themes.
	commonTargets := make(map[string]bool)
	for _, mod := range family.Common.Modifiers {
		for _, target := range mod.Targets {
			commonTargets[target.String()] = true
		}
	}
	for _, want := range []string{"style.border", "syntax.keyword", "syntax.comment"} {
		if !commonTargets[want] {
			t.Errorf("common theme missing target %s (has %v)", want, commonTargets)
		}
	}
	if commonTargets["style.text"] {
		t.Error("style.text was hoisted although the themes disagree on it")
	}
	if len(family.Common.Players) != 1 {
		t.Errorf("common players = %d, want 1", len(family.Common.Players))
	}

	for _, theme := range family.Themes {
		if len(theme.Players) != 0 {
			t.Errorf("theme %q kept players after hoisting", theme.Name)
		}
		for _, mod := range theme.Modifiers {
			for _, target := range mod.Targets {
				if target.String() == "style.border" {
					t.Errorf("theme %q still sets the hoisted style.border", theme.Name)
				}
			}
		}
	}
}

func TestMigrateTranslucentColorSharesEntry(t *testing.T) {
	input := &schema.ThemeFamily{
		Name:   "T",
		Author: "A",
		Themes: []schema.Theme{
			{
				Name:       "X",
				Appearance: "dark",
				Style: schema.Style{
					Colors: map[string]*string{
						"text":   strPtr("#e0def4ff"),
						"shadow": strPtr("#e0def440"),
					},
					Syntax: map[string]schema.Syntax{},
				},
			},
		},
	}

	family, err := Migrate(input)
	if err != nil {
		t.Fatal(err)
	}
	if family.Palette.Len() != 1 {
		t.Errorf("palette has %d entries, want 1 shared base", family.Palette.Len())
	}

	composed, err := compose.Compose(family)
	if err != nil {
		t.Fatal(err)
	}
	if got := composed.Themes[0].Style["shadow"].Hex(); got != "#e0def440" {
		t.Errorf("shadow = %s, want original alpha preserved", got)
	}
}

func TestMigrateDeterministic(t *testing.T) {
	first, err := Migrate(migrationInput())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Migrate(migrationInput())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.Palette.Names(), second.Palette.Names()) {
		t.Errorf("palette order differs between runs:\n%v\n%v", first.Palette.Names(), second.Palette.Names())
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("migration output differs between runs")
	}
}

func TestMigrateRejectsBadAppearance(t *testing.T) {
	input := &schema.ThemeFamily{
		Name:   "T",
		Author: "A",
		Themes: []schema.Theme{{Name: "X", Appearance: "dusk"}},
	}
	if _, err := Migrate(input); err == nil {
		t.Error("Migrate() accepted an unknown appearance")
	}
}
