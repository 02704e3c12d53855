package slot

import (
	"encoding/json"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Settings
	}{
		{name: "missing", raw: "", want: Settings{}},
		{name: "null", raw: "null", want: Settings{}},
		{name: "empty object", raw: "{}", want: Settings{}},
		{name: "locked empty", raw: `{"suppressClear":true}`, want: Settings{SuppressClear: true}},
		{
			name: "filled",
			raw:  `{"value":"Hello World","label":"Hello\nWorld"}`,
			want: Settings{Value: "Hello World", Label: "Hello\nWorld"},
		},
		{
			name: "stale label is re-derived",
			raw:  `{"value":"Hello World","label":"old"}`,
			want: Settings{Value: "Hello World", Label: "Hello\nWorld"},
		},
		{
			name: "orphan label dropped",
			raw:  `{"label":"ghost","suppressClear":true}`,
			want: Settings{SuppressClear: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode(%s) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(json.RawMessage(`{"value":`)); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestFillAndClear(t *testing.T) {
	s := Settings{SuppressClear: true}

	if _, ok := s.Fill("   \n"); ok {
		t.Fatal("blank text should not fill the slot")
	}

	filled, ok := s.Fill("Hello World")
	if !ok {
		t.Fatal("expected Fill to succeed")
	}
	if filled.State() != Filled || filled.Label != "Hello\nWorld" || !filled.Locked() {
		t.Fatalf("unexpected filled slot: %+v", filled)
	}

	cleared := filled.Clear()
	if cleared.State() != Empty || cleared.Value != "" || cleared.Label != "" {
		t.Fatalf("unexpected cleared slot: %+v", cleared)
	}
	if !cleared.Locked() {
		t.Error("Clear must keep the lock flag")
	}
}

func TestSettingsWireNames(t *testing.T) {
	data, err := json.Marshal(Settings{Value: "x", Label: "x", SuppressClear: true})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"value":"x","label":"x","suppressClear":true}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	data, err = json.Marshal(Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("empty slot should omit all fields, got %s", data)
	}
}
