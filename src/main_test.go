package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"fire 3", []string{"fire", "3"}},
		{"  set 0  mode   osc ", []string{"set", "0", "mode", "osc"}},
		{"set 1 wave tri%61ngle", []string{"set", "1", "wave", "triangle"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.line)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.line, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tt.line, diff)
		}
	}
	if _, err := parseCommand("level 0 %zz"); err == nil {
		t.Error("expected an error, but got nil")
	}
}
