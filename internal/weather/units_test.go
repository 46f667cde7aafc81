package weather

import (
	"math"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{"float64", 28.4, ptr(28.4)},
		{"int", 7, ptr(7)},
		{"numeric string", "18", ptr(18)},
		{"numeric string with spaces", " 5.5 ", ptr(5.5)},
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"non-numeric string", "n/a", nil},
		{"bool", true, nil},
		{"map", map[string]any{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFloat(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseFloat(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("ParseFloat(%v) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestKmhToMS(t *testing.T) {
	got := KmhToMS(ptr(36.0))
	if got == nil || *got != 10.0 {
		t.Fatalf("KmhToMS(36.0) = %v, want 10.0", got)
	}

	if KmhToMS(nil) != nil {
		t.Fatal("KmhToMS(nil) should propagate absent")
	}

	got = KmhToMS(ptr(18.0))
	if got == nil || math.Abs(*got-5.0) > 1e-9 {
		t.Fatalf("KmhToMS(18.0) = %v, want 5.0", got)
	}
}

func TestFormatFloat(t *testing.T) {
	if got := FormatFloat(nil); got != "" {
		t.Fatalf("FormatFloat(nil) = %q, want empty string", got)
	}
	if got := FormatFloat(ptr(28.4)); got != "28.4" {
		t.Fatalf("FormatFloat(28.4) = %q, want %q", got, "28.4")
	}
	if got := FormatFloat(ptr(3)); got != "3" {
		t.Fatalf("FormatFloat(3) = %q, want %q", got, "3")
	}
}

func ptr(f float64) *float64 {
	return &f
}
