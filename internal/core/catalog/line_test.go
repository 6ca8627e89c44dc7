package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		in   string
		want LineRecord
	}{
		{"2 oz gin", LineRecord{Name: "gin", Text: "2 oz gin"}},
		{"0.75 oz lime juice", LineRecord{Name: "lime juice", Text: "0.75 oz lime juice"}},
		{"1/2 oz honey syrup", LineRecord{Name: "honey syrup", Text: "1/2 oz honey syrup"}},
		{"Dash bitters", LineRecord{Name: "bitters", Text: "Dash bitters"}},
		{"2 dashes of Angostura bitters", LineRecord{Name: "Angostura bitters", Text: "2 dashes of Angostura bitters"}},
		{"Top with soda water", LineRecord{Name: "soda water", Text: "Top with soda water"}},
		{"1 lime", LineRecord{Name: "lime", Text: "1 lime"}},
		{"Salt for rim", LineRecord{Name: "Salt for rim", Text: "Salt for rim"}},
		{"  Simple syrup (optional) ", LineRecord{Name: "Simple syrup", Text: "Simple syrup (optional)", IsOptional: true}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseLine(tt.in)); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestValidateLineText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2 oz gin", ""},
		{"Lemon twist", ""},
		{"   ", "empty ingredient"},
		{"1 oz ???", "contains '???'"},
		{"null", "invalid null value"},
		{"None", "invalid null value"},
		{"x", "too short"},
		{"gin|tonic", "contains pipe character (should be split)"},
		{"12", "no ingredient name found"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidateLineText(tt.in); got != tt.want {
				t.Errorf("ValidateLineText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
