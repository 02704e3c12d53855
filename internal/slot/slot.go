package slot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petems/clipslot/internal/label"
)

// State is the visual state index the host renders for a key.
type State int

const (
	Empty State = iota
	Filled
)

func (s State) String() string {
	if s == Filled {
		return "filled"
	}
	return "empty"
}

// Settings is the per-key slot persisted by the host. The JSON field names
// are the durable schema shared with the property inspector.
type Settings struct {
	Value         string `json:"value,omitempty"`
	Label         string `json:"label,omitempty"`
	SuppressClear bool   `json:"suppressClear,omitempty"`
}

// Decode parses a settings snapshot as delivered by the host. A missing or
// null payload yields an empty slot.
func Decode(raw json.RawMessage) (Settings, error) {
	var s Settings
	if len(raw) == 0 || string(raw) == "null" {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("decode slot settings: %w", err)
	}
	return s.Normalize(), nil
}

// Filled reports whether the slot holds captured text.
func (s Settings) Filled() bool {
	return s.Value != ""
}

func (s Settings) Locked() bool {
	return s.SuppressClear
}

func (s Settings) State() State {
	if s.Filled() {
		return Filled
	}
	return Empty
}

// Fill stores text and derives its label. Text with no visible characters
// leaves the slot unchanged and reports false.
func (s Settings) Fill(text string) (Settings, bool) {
	if strings.TrimSpace(text) == "" {
		return s, false
	}
	s.Value = text
	s.Label = label.Format(text)
	return s, true
}

// Clear empties the slot. The lock flag is a user preference and survives.
func (s Settings) Clear() Settings {
	return Settings{SuppressClear: s.SuppressClear}
}

// Normalize re-derives Label from Value so the pair is always consistent,
// whatever the host handed back.
func (s Settings) Normalize() Settings {
	if strings.TrimSpace(s.Value) == "" {
		return Settings{SuppressClear: s.SuppressClear}
	}
	s.Label = label.Format(s.Value)
	return s
}
