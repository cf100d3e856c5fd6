package cli

import "testing"

func TestStringFlag(t *testing.T) {
	var f stringFlag
	if err := f.Set("main"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if f.Value != "main" || !f.WasSet || f.String() != "main" {
		t.Fatalf("unexpected flag state: %+v", f)
	}
}

func TestIntFlag(t *testing.T) {
	var f intFlag
	if err := f.Set("42"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if f.Value != 42 || !f.WasSet || f.String() != "42" {
		t.Fatalf("unexpected flag state: %+v", f)
	}
	if err := f.Set("soon"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestFloatFlag(t *testing.T) {
	var f floatFlag
	if err := f.Set("0.5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if f.Value != 0.5 || !f.WasSet || f.String() != "0.5" {
		t.Fatalf("unexpected flag state: %+v", f)
	}
	if err := f.Set("fast"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestBoolFlag(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"y", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		var f BoolFlag
		if err := f.Set(tt.input); err != nil {
			t.Errorf("Set(%q) failed: %v", tt.input, err)
		}
		if f.Value != tt.want || !f.WasSet {
			t.Errorf("Set(%q) got %+v, want %v", tt.input, f, tt.want)
		}
	}
	if !(&BoolFlag{}).IsBoolFlag() {
		t.Error("IsBoolFlag should return true")
	}
}

func TestStringMapFlag(t *testing.T) {
	var f stringMapFlag
	for _, v := range []string{"usual-products=Products", " api = API Reference "} {
		if err := f.Set(v); err != nil {
			t.Fatalf("Set(%q) failed: %v", v, err)
		}
	}
	if f.Values["api"] != "API Reference" || f.Values["usual-products"] != "Products" {
		t.Fatalf("values = %v", f.Values)
	}
	if got := f.String(); got != "api=API Reference,usual-products=Products" {
		t.Fatalf("String() = %q", got)
	}
	if err := f.Set("novalue"); err == nil {
		t.Fatal("expected error without '='")
	}
}

func TestStringListFlag(t *testing.T) {
	var f stringListFlag
	_ = f.Set("header.app-bar, .sidebar")
	_ = f.Set("#cookie-banner")
	_ = f.Set(" , ")
	if len(f.Values) != 3 || f.Values[2] != "#cookie-banner" || !f.WasSet {
		t.Fatalf("values = %#v", f.Values)
	}
}

func TestCommandListFlag(t *testing.T) {
	var f commandListFlag
	if err := f.Set("cp a,b out/"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := f.Set("  "); err == nil {
		t.Fatal("expected error for blank command")
	}
	if len(f.Values) != 1 || f.Values[0] != "cp a,b out/" {
		t.Fatalf("values = %#v", f.Values)
	}
}
