package common

import (
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single object", `{"name":"gin"}`, false},
		{"trailing whitespace", "{\"name\":\"gin\"}\n  ", false},
		{"trailing object", `{"name":"gin"} {"name":"rum"}`, true},
		{"malformed", `{"name":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Name string `json:"name"`
			}
			err := DecodeJSON(strings.NewReader(tt.input), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Name != "gin" {
				t.Errorf("Name = %q, want gin", v.Name)
			}
		})
	}
}
