package manifest

import (
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestHexAddr_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    HexAddr
		wantErr bool
	}{
		{"quoted hex", `addr: "0x80400000"`, 0x80400000, false},
		{"bare hex", `addr: 0x80400000`, 0x80400000, false},
		{"uppercase hex", `addr: "0X80400000"`, 0x80400000, false},
		{"quoted decimal", `addr: "131072"`, 0x20000, false},
		{"bare decimal", `addr: 131072`, 0x20000, false},
		{"zero", `addr: "0x0"`, 0, false},
		{"garbage", `addr: "80400000h"`, 0, true},
		{"negative", `addr: "-1"`, 0, true},
		{"empty", `addr: ""`, 0, true},
		{"mapping", "addr:\n  x: 1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Addr HexAddr `yaml:"addr"`
			}
			err := yaml.Unmarshal([]byte(tt.yaml), &doc)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got addr=%s", doc.Addr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Addr != tt.want {
				t.Errorf("addr = %s, want %s", doc.Addr, tt.want)
			}
		})
	}
}

func TestHexAddr_Hex(t *testing.T) {
	tests := []struct {
		addr HexAddr
		want string
	}{
		{0x80400000, "0x80400000"},
		{0x80420000, "0x80420000"},
		{0x20000, "0x20000"},
		{0, "0x0"},
		{15, "0xf"},
	}

	for _, tt := range tests {
		if got := tt.addr.Hex(); got != tt.want {
			t.Errorf("HexAddr(%d).Hex() = %q, want %q", uint64(tt.addr), got, tt.want)
		}
	}
}

func TestHexAddr_Marshal(t *testing.T) {
	doc := struct {
		Addr HexAddr `yaml:"addr"`
	}{Addr: 0x80400000}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), "0x80400000") {
		t.Errorf("marshaled output should contain hex literal, got %q", out)
	}
}
