package interpreters

import (
	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/interpreters/goja"
	"github.com/Comcast/blox/interpreters/noop"
)

// Standard returns the interpreters that the commands know about by
// name.
func Standard() map[string]core.Interpreter {
	is := make(map[string]core.Interpreter)

	is["goja"] = goja.NewInterpreter()

	ext := goja.NewInterpreter()
	ext.Extended = true
	is["goja-ext"] = ext
	is["ecmascript"] = ext // For backwards compatibility

	quiet := noop.NewInterpreter()
	quiet.Silent = true
	is["noop"] = quiet

	return is
}
