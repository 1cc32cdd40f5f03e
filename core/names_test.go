package core

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		key, specifier string
		remainder      string
		matches        bool
	}{
		{"compute:message", "compute:", "message", true},
		{"compute:", "compute:", "", true},
		{"Compute:message", "compute:", "", false},
		{" compute:message", "compute:", "", false},
		{"foo:message", "compute:", "", false},
		{"on:click", "on:", "click", true},
		{"onclick", "on:", "", false},
		{"event:a:b", "event:", "a:b", true},
	}
	for _, tt := range tests {
		remainder, matches := Match(tt.key, tt.specifier)
		if remainder != tt.remainder || matches != tt.matches {
			t.Errorf("Match(%q, %q) = %q, %v; wanted %q, %v",
				tt.key, tt.specifier, remainder, matches, tt.remainder, tt.matches)
		}
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := map[string]string{
		"clicked":   "onClicked",
		"didClick":  "onDidClick",
		"x":         "onX",
		"did_click": "onDid_click",
		"élan":      "onÉlan",
	}
	for in, want := range tests {
		if got := CapitalizeFirst(in); got != want {
			t.Errorf("CapitalizeFirst(%q) = %q, wanted %q", in, got, want)
		}
	}
}

func TestCamelJoin(t *testing.T) {
	tests := map[string]string{
		"did_click":    "onDidClick",
		"did-click":    "onDidClick",
		"did click":    "onDidClick",
		"did__click":   "onDidClick",
		"did_-_click":  "onDidClick",
		"_did_click_":  "onDidClick",
		"didClick":     "onDidclick",
		"DID_CLICK":    "onDidClick",
		"click":        "onClick",
		"update:value": "onUpdateValue",
		"v2_ready":     "onV2Ready",
		"2fa":          "on2fa",
		"a.b.c":        "onABC",
		"café_ready":   "onCafReady",
	}
	for in, want := range tests {
		if got := CamelJoin(in); got != want {
			t.Errorf("CamelJoin(%q) = %q, wanted %q", in, got, want)
		}
	}
}

func TestIdentity(t *testing.T) {
	if got := Identity("message"); got != "message" {
		t.Fatal(got)
	}
}

func TestIsUnsafe(t *testing.T) {
	for _, expr := range []string{"__proto__", "prototype", "constructor"} {
		if !IsUnsafe(expr) {
			t.Errorf("%q should be unsafe", expr)
		}
	}
	// Exact match only.
	for _, expr := range []string{
		"__proto__()",
		"x.constructor",
		"prototype + 1",
		" __proto__",
		"constructor ",
		"Constructor",
		"1 + 1",
		"",
	} {
		if IsUnsafe(expr) {
			t.Errorf("%q shouldn't be unsafe", expr)
		}
	}
}

func TestDirectivesOwnOnePrefix(t *testing.T) {
	keys := []string{"compute:x", "on:x", "event:x", "x", "type"}
	for _, key := range keys {
		owners := 0
		for _, d := range StandardDirectives() {
			if d.Owns(key) {
				owners++
			}
		}
		want := 1
		if key == "x" || key == "type" {
			want = 0
		}
		if owners != want {
			t.Errorf("%q has %d owners", key, owners)
		}
	}
}

func TestDirectivePropNames(t *testing.T) {
	tests := []struct {
		d    *Directive
		in   string
		want string
	}{
		{ComputeDirective(), "message", "message"},
		{EmitDirective(), "did_click", "onDidClick"},
		{EventDirective(), "didClick", "onDidClick"},
		{&Directive{}, "raw", "raw"},
	}
	for _, tt := range tests {
		if got := tt.d.PropName(tt.in); got != tt.want {
			t.Errorf("%s PropName(%q) = %q, wanted %q", tt.d.Name, tt.in, got, tt.want)
		}
	}
}

func TestInvokeFunctions(t *testing.T) {
	var order []int
	f := invokeFunctions(
		func() { order = append(order, 1) },
		nil,
		func() { order = append(order, 2) },
	)
	f()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order %v", order)
	}
}

func TestExpressionString(t *testing.T) {
	for _, tt := range []struct {
		value interface{}
		want  string
	}{
		{"x * y", "x * y"},
		{" 1 ", " 1 "},
		{42, "42"},
		{true, "true"},
		{nil, ""},
	} {
		if got := ExpressionString(tt.value); got != tt.want {
			t.Errorf("%#v gave %q", tt.value, got)
		}
	}
}
