package noop

import (
	"context"
	"log"

	"github.com/Comcast/blox/core"
)

// Interpreter is a core.Interpreter which just returns the
// expression text without evaluating it.
//
// Handy for looking at what a view would render without running any
// of its code.
type Interpreter struct {
	// Silent, if false, will log a warning on each evaluation.
	Silent bool
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (i *Interpreter) Evaluate(ctx context.Context, src string, scope core.Scope, fns core.Functions) (interface{}, error) {
	if !i.Silent {
		log.Printf("warning: Using noop Interpreter for %q", src)
	}
	return src, nil
}
