package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshotNil(t *testing.T) {
	s, err := Snapshot(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || len(s) != 0 {
		t.Fatalf("wanted an empty scope, not %#v", s)
	}
	// The empty Snapshot is still writable.
	s["x"] = 1
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	live := Scope{
		"x": 2,
		"o": map[string]interface{}{
			"likes": []interface{}{"tacos", map[string]interface{}{"n": 1}},
		},
		"s": Scope{"a": "b"},
	}

	snap, err := Snapshot(live)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snap, live) {
		t.Fatalf("%#v != %#v", snap, live)
	}

	snap["x"] = 3
	snap["new"] = true
	o := snap["o"].(map[string]interface{})
	o["likes"].([]interface{})[0] = "chips"
	o["likes"].([]interface{})[1].(map[string]interface{})["n"] = 2
	snap["s"].(Scope)["a"] = "c"

	if live["x"] != 2 {
		t.Fatal("x leaked")
	}
	if _, have := live["new"]; have {
		t.Fatal("new leaked")
	}
	lo := live["o"].(map[string]interface{})
	if lo["likes"].([]interface{})[0] != "tacos" {
		t.Fatal("slice element leaked")
	}
	if lo["likes"].([]interface{})[1].(map[string]interface{})["n"] != 1 {
		t.Fatal("nested map leaked")
	}
	if live["s"].(Scope)["a"] != "b" {
		t.Fatal("nested Scope leaked")
	}
}

func TestSnapshotDropsFunctions(t *testing.T) {
	live := Scope{
		"f": func() {},
		"o": map[string]interface{}{"g": func() int { return 1 }, "h": "here"},
		"x": 1,
	}
	snap, err := Snapshot(live)
	if err != nil {
		t.Fatal(err)
	}
	if _, have := snap["f"]; have {
		t.Fatal("kept a function")
	}
	o := snap["o"].(map[string]interface{})
	if _, have := o["g"]; have {
		t.Fatal("kept a nested function")
	}
	if o["h"] != "here" {
		t.Fatal("lost a sibling")
	}
}

func TestSnapshotStructs(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	p := &point{1, 2}
	snap, err := Snapshot(Scope{"p": p, "ps": []point{{3, 4}}})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"x": float64(1), "y": float64(2)}
	if !reflect.DeepEqual(snap["p"], want) {
		t.Fatalf("got %#v", snap["p"])
	}
	p.X = 10
	if snap["p"].(map[string]interface{})["x"] != float64(1) {
		t.Fatal("struct pointer aliased")
	}
	if _, is := snap["ps"].([]interface{}); !is {
		t.Fatalf("typed slice is a %T", snap["ps"])
	}
}

func TestSnapshotUncopyable(t *testing.T) {
	if _, err := Snapshot(Scope{"c": make(chan int)}); err == nil {
		t.Fatal("copied a channel")
	}
}

func TestSnapshotCycle(t *testing.T) {
	m := map[string]interface{}{"n": 1}
	m["self"] = m

	xs := []interface{}{1, nil}
	xs[1] = xs

	deep := map[string]interface{}{}
	deep["l"] = []interface{}{map[string]interface{}{"up": deep}}

	for name, x := range map[string]interface{}{
		"map":   m,
		"slice": xs,
		"deep":  deep,
	} {
		_, err := Snapshot(Scope{"x": x})
		if err == nil {
			t.Fatalf("%s: copied a cycle", name)
		}
		if !errors.Is(err, ErrCycle) {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestSnapshotSharedIsNotCycle(t *testing.T) {
	shared := map[string]interface{}{"n": 1}
	xs := []interface{}{"a"}
	snap, err := Snapshot(Scope{
		"a":  shared,
		"b":  shared,
		"l":  []interface{}{shared, shared, xs, xs},
		"e1": map[string]interface{}{},
		"e2": []interface{}{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snap["a"], shared) || !reflect.DeepEqual(snap["b"], shared) {
		t.Fatalf("got %#v", snap)
	}
}

func TestScopeCopyIsShallow(t *testing.T) {
	m := map[string]interface{}{"a": 1}
	s := Scope{"m": m}
	c := s.Copy().Extend("b", 2)
	if _, have := s["b"]; have {
		t.Fatal("Copy aliased")
	}
	c["m"].(map[string]interface{})["a"] = 2
	if m["a"] != 2 {
		t.Fatal("Copy isn't shallow")
	}
}

func TestCanonicalize(t *testing.T) {
	x, err := Canonicalize(struct{ A int }{1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(x, map[string]interface{}{"A": float64(1)}) {
		t.Fatalf("got %#v", x)
	}
}
