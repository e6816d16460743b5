package config

import (
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_MarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input SecretString
		want  any
	}{
		{"empty", "", nil},
		{"short", "k", secretMask},
		{"signing key", "hmac-signing-key-2024", secretMask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalYAML()
			if err != nil {
				t.Fatalf("MarshalYAML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MarshalYAML() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecretString_DumpMasksSigningKey(t *testing.T) {
	cfg := StoreConfig{
		Directory:  "exports",
		SigningKey: "do-not-print-me",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	out := string(data)
	if strings.Contains(out, "do-not-print-me") {
		t.Errorf("signing key leaked into dump:\n%s", out)
	}
	if !strings.Contains(out, secretMask) {
		t.Errorf("signing key not masked:\n%s", out)
	}
	// empty key serializes as null, never as the mask
	cfg.SigningKey = ""
	if data, err = yaml.Marshal(cfg); err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if strings.Contains(string(data), secretMask) {
		t.Errorf("empty signing key masked:\n%s", data)
	}
}

func TestSecretString_RealValueStaysUsable(t *testing.T) {
	key := SecretString("topsecret")
	if string(key) != "topsecret" {
		t.Errorf("string(key) = %q", string(key))
	}
}
