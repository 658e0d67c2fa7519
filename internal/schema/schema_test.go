package schema

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestStyleMarshalFlattens(t *testing.T) {
	style := Style{
		Colors: map[string]*string{
			"text":   strPtr("#e0def4ff"),
			"border": nil,
		},
		Syntax: map[string]Syntax{
			"keyword": {Color: strPtr("#31748fff")},
		},
	}

	data, err := json.Marshal(style)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["text"]) != `"#e0def4ff"` {
		t.Errorf("text = %s", raw["text"])
	}
	if string(raw["border"]) != "null" {
		t.Errorf("border = %s, want null", raw["border"])
	}
	if _, ok := raw["syntax"]; !ok {
		t.Error("syntax key missing from flattened style")
	}
}

func TestStyleRoundTrip(t *testing.T) {
	weight := uint16(700)
	in := Style{
		Colors: map[string]*string{
			"text":              strPtr("#e0def4ff"),
			"editor.background": strPtr("#191724ff"),
		},
		Syntax: map[string]Syntax{
			"keyword": {Color: strPtr("#31748fff"), FontWeight: &weight},
			"comment": {Color: strPtr("#6e6a86ff"), FontStyle: strPtr("italic")},
		},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Style
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if len(out.Colors) != 2 || *out.Colors["text"] != "#e0def4ff" {
		t.Errorf("colors = %v", out.Colors)
	}
	keyword := out.Syntax["keyword"]
	if keyword.Color == nil || *keyword.Color != "#31748fff" {
		t.Errorf("keyword color = %v", keyword.Color)
	}
	if keyword.FontWeight == nil || *keyword.FontWeight != 700 {
		t.Errorf("keyword font_weight = %v", keyword.FontWeight)
	}
	if out.Syntax["comment"].FontStyle == nil || *out.Syntax["comment"].FontStyle != "italic" {
		t.Errorf("comment font_style = %v", out.Syntax["comment"].FontStyle)
	}
}

func TestWriteRead(t *testing.T) {
	family := &ThemeFamily{
		Name:   "Test Family",
		Author: "Tester",
		Themes: []Theme{
			{
				Name:       "Test Dark",
				Appearance: "dark",
				Style: Style{
					Colors: map[string]*string{"text": strPtr("#e0def4ff")},
					Syntax: map[string]Syntax{"keyword": {Color: strPtr("#31748fff")}},
				},
				Players: []Player{
					{Cursor: strPtr("#eb6f92ff")},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := family.Write(&buf); err != nil {
		t.Fatal(err)
	}

	// Spot-check the exact field names of the external contract.
	for _, want := range []string{`"name"`, `"author"`, `"themes"`, `"appearance"`, `"style"`, `"syntax"`, `"players"`, `"cursor"`, `"font_weight"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %s:\n%s", want, buf.String())
		}
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != family.Name || len(got.Themes) != 1 {
		t.Errorf("round trip = %+v", got)
	}
	if got.Themes[0].Appearance != "dark" {
		t.Errorf("appearance = %q", got.Themes[0].Appearance)
	}
	if len(got.Themes[0].Players) != 1 || *got.Themes[0].Players[0].Cursor != "#eb6f92ff" {
		t.Errorf("players = %+v", got.Themes[0].Players)
	}
}
