package bookshelf_test

import (
	"math"
	"testing"

	bookshelf "github.com/ideamans/go-bookshelf"
)

func TestRow_GetAsString(t *testing.T) {
	row := bookshelf.Row{
		Index: 2,
		Values: map[string]interface{}{
			"id":     "007",
			"count":  int64(42),
			"rating": 4.5,
			"whole":  3.0,
			"read":   true,
			"unread": false,
			"empty":  "",
		},
	}

	tests := []struct {
		name         string
		column       string
		defaultValue string
		want         string
	}{
		{"string value", "id", "", "007"},
		{"int64 value", "count", "", "42"},
		{"float value", "rating", "", "4.5"},
		{"whole float", "whole", "", "3"},
		{"bool true", "read", "", "true"},
		{"bool false", "unread", "", "false"},
		{"empty string is kept", "empty", "default", ""},
		{"missing column", "nope", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := row.GetAsString(tt.column, tt.defaultValue); got != tt.want {
				t.Errorf("GetAsString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRow_GetAsInt64(t *testing.T) {
	row := bookshelf.Row{
		Values: map[string]interface{}{
			"int64":   int64(7),
			"int":     12,
			"whole":   5.0,
			"decimal": 4.7,
			"padded":  "003",
			"text":    "abc",
		},
	}

	tests := []struct {
		name   string
		column string
		want   int64
	}{
		{"int64 value", "int64", 7},
		{"int value", "int", 12},
		{"whole float", "whole", 5},
		{"decimal falls back", "decimal", -1},
		{"padded id", "padded", 3},
		{"text falls back", "text", -1},
		{"missing column", "nope", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := row.GetAsInt64(tt.column, -1); got != tt.want {
				t.Errorf("GetAsInt64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRow_GetAsFloat64(t *testing.T) {
	row := bookshelf.Row{
		Values: map[string]interface{}{
			"float":  4.7,
			"int64":  int64(4),
			"int":    2,
			"text":   " 3.5 ",
			"letter": "N/A",
		},
	}

	tests := []struct {
		name   string
		column string
		want   float64
	}{
		{"float value", "float", 4.7},
		{"int64 value", "int64", 4},
		{"int value", "int", 2},
		{"numeric text", "text", 3.5},
		{"non numeric text", "letter", -1},
		{"missing column", "nope", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := row.GetAsFloat64(tt.column, -1); got != tt.want {
				t.Errorf("GetAsFloat64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"4.7", 4.7},
		{"0.5", 0.5},
		{"0", int64(0)},
		{"true", true},
		{"false", false},
		{"007", "007"},
		{"0-306-40615-2", "0-306-40615-2"},
		{"1e3", "1e3"},
		{"1.10", "1.10"},
		{"+81", "+81"},
		{"4.50", "4.50"},
		{" 5", " 5"},
		{"TRUE", "TRUE"},
		{"False", "False"},
		{"", ""},
		{"-", "-"},
		{"Dune", "Dune"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := bookshelf.ParseCell(tt.in); got != tt.want {
				t.Errorf("ParseCell(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, ""},
		{"whole float", 5.0, int64(5)},
		{"decimal", 4.5, 4.5},
		{"float32", float32(2), int64(2)},
		{"int", 3, int64(3)},
		{"int32", int32(9), int64(9)},
		{"bool", true, true},
		{"numeric text stays text", "12", "12"},
		{"padded text", "001", "001"},
		{"other", []byte("x"), "[120]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bookshelf.NormalizeCell(tt.in); got != tt.want {
				t.Errorf("NormalizeCell(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCell_Infinity(t *testing.T) {
	got := bookshelf.NormalizeCell(math.Inf(1))
	if f, ok := got.(float64); !ok || !math.IsInf(f, 1) {
		t.Errorf("NormalizeCell(+Inf) = %#v, want +Inf", got)
	}
}
