// Package schema is the thin serialization boundary: the fixed JSON theme
// format consumed by the editor. Field names, nesting and value shapes are
// part of the external contract and must not drift.
package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/compose"
)

// ThemeFamily is the top-level JSON document.
type ThemeFamily struct {
	Name   string  `json:"name"`
	Author string  `json:"author"`
	Themes []Theme `json:"themes"`
}

// Theme is one theme of the family. Style holds flat color entries plus
// the nested syntax map; Players is the ordered collaborator color list.
type Theme struct {
	Name       string   `json:"name"`
	Appearance string   `json:"appearance"`
	Style      Style    `json:"style"`
	Players    []Player `json:"players"`
}

// Style is the mixed style object: every key except "syntax" maps to a hex
// color string (or null), and "syntax" maps to the syntax entry object.
// The mix requires custom JSON handling.
type Style struct {
	Colors map[string]*string
	Syntax map[string]Syntax
}

// Syntax is one syntax entry. All fields are emitted, null when unset,
// matching what the editor expects.
type Syntax struct {
	Color      *string `json:"color"`
	Background *string `json:"background"`
	FontWeight *uint16 `json:"font_weight"`
	FontStyle  *string `json:"font_style"`
}

// Player holds the colors for one collaborator slot.
type Player struct {
	Cursor     *string `json:"cursor"`
	Background *string `json:"background"`
	Selection  *string `json:"selection"`
}

// MarshalJSON flattens the style colors and the syntax map into a single
// object. Keys are emitted in encoding/json's sorted map order, which
// keeps output deterministic.
func (s Style) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Colors)+1)
	for key, value := range s.Colors {
		flat[key] = value
	}
	syntax := s.Syntax
	if syntax == nil {
		syntax = map[string]Syntax{}
	}
	flat["syntax"] = syntax
	return json.Marshal(flat)
}

// UnmarshalJSON splits the mixed style object back into color entries and
// the syntax map.
func (s *Style) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Colors = make(map[string]*string)
	s.Syntax = make(map[string]Syntax)
	for key, value := range raw {
		if key == "syntax" {
			if err := json.Unmarshal(value, &s.Syntax); err != nil {
				return fmt.Errorf("style.syntax: %w", err)
			}
			continue
		}
		var hex *string
		if err := json.Unmarshal(value, &hex); err != nil {
			return fmt.Errorf("style.%s: expected a color string or null: %w", key, err)
		}
		s.Colors[key] = hex
	}
	return nil
}

// FromComposed converts a composed family into the JSON model.
func FromComposed(family *compose.Family) *ThemeFamily {
	out := &ThemeFamily{
		Name:   family.Meta.Name,
		Author: family.Meta.Author,
		Themes: make([]Theme, 0, len(family.Themes)),
	}

	for _, theme := range family.Themes {
		jsonTheme := Theme{
			Name:       theme.Name,
			Appearance: theme.Appearance.String(),
			Style: Style{
				Colors: make(map[string]*string, len(theme.Style)),
				Syntax: make(map[string]Syntax, len(theme.Syntax)),
			},
			Players: make([]Player, 0, len(theme.Players)),
		}

		for key, c := range theme.Style {
			jsonTheme.Style.Colors[key] = hexPtr(&c)
		}
		for key, entry := range theme.Syntax {
			jsonTheme.Style.Syntax[key] = Syntax{
				Color:      hexPtr(entry.Color),
				Background: hexPtr(entry.Background),
				FontWeight: entry.FontWeight,
				FontStyle:  entry.FontStyle,
			}
		}
		for _, player := range theme.Players {
			jsonTheme.Players = append(jsonTheme.Players, Player{
				Cursor:     hexPtr(player.Cursor),
				Background: hexPtr(player.Background),
				Selection:  hexPtr(player.Selection),
			})
		}

		out.Themes = append(out.Themes, jsonTheme)
	}
	return out
}

func hexPtr(c *color.Color) *string {
	if c == nil {
		return nil
	}
	hex := c.Hex()
	return &hex
}

// Write serializes the family as indented JSON.
func (f *ThemeFamily) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding theme JSON: %w", err)
	}
	return nil
}

// Read deserializes a family from JSON.
func Read(r io.Reader) (*ThemeFamily, error) {
	var family ThemeFamily
	dec := json.NewDecoder(r)
	if err := dec.Decode(&family); err != nil {
		return nil, fmt.Errorf("decoding theme JSON: %w", err)
	}
	return &family, nil
}
