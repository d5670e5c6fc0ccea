package value_test

import (
	"testing"

	"golox/value"
)

func TestNumberString(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integral", 3, "3"},
		{"fraction", 3.25, "3.25"},
		{"zero", 0, "0"},
		{"negative zero", negZero(), "-0"},
		{"negative integral", -12, "-12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value.Number(tt.in).String(); got != tt.want {
				t.Errorf("Number(%v).String() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func negZero() float64 {
	var z float64
	return -z
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"nil", value.Nil{}, false},
		{"false", value.Boolean(false), false},
		{"true", value.Boolean(true), true},
		{"zero number", value.Number(0), true},
		{"empty string", value.String(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value.Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"nil equals nil", value.Nil{}, value.Nil{}, true},
		{"nil vs false", value.Nil{}, value.Boolean(false), false},
		{"string content", value.String("0"), value.String("0"), true},
		{"string vs number never equal", value.String("0"), value.Number(0), false},
		{"numbers by value", value.Number(1), value.Number(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAddStrict(t *testing.T) {
	if _, ok := value.Add(value.Number(1), value.String("x")); ok {
		t.Error("Add(number, string) should be a type error under the strict rule")
	}
	if v, ok := value.Add(value.Number(1), value.Number(2)); !ok || v != value.Number(3) {
		t.Errorf("Add(1,2) = %v, %v; want 3, true", v, ok)
	}
	if v, ok := value.Add(value.String("a"), value.String("b")); !ok || v != value.String("ab") {
		t.Errorf("Add(a,b) = %v, %v; want ab, true", v, ok)
	}
}

func TestDivByZero(t *testing.T) {
	_, ok, divByZero := value.Div(value.Number(1), value.Number(0))
	if !ok || !divByZero {
		t.Errorf("Div(1,0) = ok=%v divByZero=%v; want ok=true divByZero=true", ok, divByZero)
	}
	v, ok, divByZero := value.Div(value.Number(6), value.Number(2))
	if !ok || divByZero || v != value.Number(3) {
		t.Errorf("Div(6,2) = %v, ok=%v, divByZero=%v; want 3, true, false", v, ok, divByZero)
	}
}
