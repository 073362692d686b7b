package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/tessro/cue/internal/config"
)

func TestSetValueTypes(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  interface{}
	}{
		{"engine.poll_interval_ms", "750", int64(750)},
		{"engine.rate_limit", "2.5", 2.5},
		{"mirror.enabled", "false", false},
		{"spotify.client_id", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			raw := map[string]interface{}{}
			if err := setValue(raw, tt.key, tt.value); err != nil {
				t.Fatalf("setValue() error = %v", err)
			}
			section, field, _ := strings.Cut(tt.key, ".")
			got := raw[section].(map[string]interface{})[field]
			if got != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSetValueRejects(t *testing.T) {
	tests := []struct{ key, value string }{
		{"nodot", "x"},
		{"a.b.c", "x"},
		{"engine.poll_interval_ms", "fast"},
		{"mirror.enabled", "maybe"},
	}
	for _, tt := range tests {
		if err := setValue(map[string]interface{}{}, tt.key, tt.value); err == nil {
			t.Errorf("setValue(%q, %q) = nil, want error", tt.key, tt.value)
		}
	}
}

func TestSetValueKeepsOtherFields(t *testing.T) {
	raw := map[string]interface{}{
		"engine": map[string]interface{}{"guard_delay_ms": int64(2000)},
	}
	if err := setValue(raw, "engine.poll_interval_ms", "600"); err != nil {
		t.Fatal(err)
	}
	engine := raw["engine"].(map[string]interface{})
	if engine["guard_delay_ms"] != int64(2000) {
		t.Errorf("guard_delay_ms lost: %v", engine)
	}
}

func TestEncodeConfigRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	want := config.Default()
	want.Spotify.ClientID = "abc"

	if err := encodeConfig(&buf, want); err != nil {
		t.Fatalf("encodeConfig() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Cue Configuration") {
		t.Errorf("missing header: %q", buf.String())
	}

	var got config.Config
	if _, err := toml.Decode(buf.String(), &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != *want {
		t.Errorf("decoded %+v, want %+v", got, *want)
	}
}
