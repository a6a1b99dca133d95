package conv

import "testing"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 3.14, 3.14, true},
		{"int", 7, 7.0, true},
		{"int64", int64(-2), -2.0, true},
		{"numeric string", " 8.5 ", 8.5, true},
		{"bool true", true, 1.0, true},
		{"bool false", false, 0.0, true},
		{"bad string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"slice", []int{1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"8.5", 8.5},
		{" 7 ", 7},
		{"abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := SafeFloat(tt.raw); got != tt.want {
			t.Errorf("SafeFloat(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestYesNo(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"Yes", 1},
		{"yes", 1},
		{" YES ", 1},
		{"No", 0},
		{"", 0},
		{"maybe", 0},
	}
	for _, tt := range tests {
		if got := YesNo(tt.raw); got != tt.want {
			t.Errorf("YesNo(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"name": "careerkit", "count": 3, "ratio": 0.5}

	if got := ConfigGet(m, "name", ""); got != "careerkit" {
		t.Errorf("ConfigGet(name) = %q", got)
	}
	if got := ConfigGet(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet(missing) = %q, want fallback", got)
	}
	if got := ConfigGet(m, "count", ""); got != "" {
		t.Errorf("type mismatch must return default, got %q", got)
	}
	if got := ConfigGet[float64](nil, "ratio", 1.0); got != 1.0 {
		t.Errorf("nil map must return default, got %v", got)
	}
}

func TestConfigGetInt64(t *testing.T) {
	m := map[string]any{"int": 3, "int64": int64(4), "float": 5.0}
	for key, want := range map[string]int64{"int": 3, "int64": 4, "float": 5} {
		if got := ConfigGetInt64(m, key, 0); got != want {
			t.Errorf("ConfigGetInt64(%s) = %d, want %d", key, got, want)
		}
	}
	if got := ConfigGetInt64(m, "missing", 9); got != 9 {
		t.Errorf("missing key = %d, want default 9", got)
	}
}

func TestConfigGetFloat64(t *testing.T) {
	m := map[string]any{"int": 35, "int64": int64(40), "float": 42.5, "str": "x"}
	for key, want := range map[string]float64{"int": 35, "int64": 40, "float": 42.5} {
		if got := ConfigGetFloat64(m, key, 0); got != want {
			t.Errorf("ConfigGetFloat64(%s) = %v, want %v", key, got, want)
		}
	}
	if got := ConfigGetFloat64(m, "missing", 1.5); got != 1.5 {
		t.Errorf("missing key = %v, want default 1.5", got)
	}
	if got := ConfigGetFloat64(m, "str", 1.5); got != 1.5 {
		t.Errorf("non-numeric value = %v, want default 1.5", got)
	}
}

func TestMapToFloat64(t *testing.T) {
	got := MapToFloat64(map[string]any{"a": 1, "b": "2.5", "c": "skip-me", "d": true})
	want := map[string]float64{"a": 1, "b": 2.5, "d": 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %v, want %v", k, got[k], v)
		}
	}
}
