package interpreters

import (
	"context"
	"testing"

	"github.com/Comcast/blox/core"
)

func TestStandard(t *testing.T) {
	is := Standard()
	for _, name := range []string{"goja", "goja-ext", "noop"} {
		if _, err := core.FindInterpreter(is, name); err != nil {
			t.Fatalf("%s: %s", name, err)
		}
	}
	if _, err := core.FindInterpreter(is, "cobol"); err != core.InterpreterNotFound {
		t.Fatalf("expected InterpreterNotFound, not %v", err)
	}
}

func TestNoopReturnsSource(t *testing.T) {
	i := Standard()["noop"]
	x, err := i.Evaluate(context.Background(), "x * y", core.Scope{"x": 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if x != "x * y" {
		t.Fatalf("got %#v", x)
	}
}
