package script

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/botarena/botarena/sim/agent"
)

// binder adapts agent.Bindings to goja functions. Errors surface as JS
// exceptions thrown from the offending call.
type binder struct {
	vm  *goja.Runtime
	b   agent.Bindings
	log *logrus.Entry
}

func register(vm *goja.Runtime, b agent.Bindings, log *logrus.Entry) error {
	bd := &binder{vm: vm, b: b, log: log}
	funcs := map[string]func(goja.FunctionCall) goja.Value{
		"move":         bd.move,
		"turn":         bd.turn,
		"shoot":        bd.shoot,
		"raycast":      bd.raycast,
		"raycast_dist": bd.raycastDist,
		"x":            bd.x,
		"y":            bd.y,
		"print":        bd.print,
	}
	for name, fn := range funcs {
		if err := vm.Set(name, fn); err != nil {
			return errors.Wrapf(err, "binding %s", name)
		}
	}
	return nil
}

func (bd *binder) move(call goja.FunctionCall) goja.Value {
	d := bd.number("move", call)
	bd.check("move", bd.agent().Move(d))
	return goja.Undefined()
}

func (bd *binder) turn(call goja.FunctionCall) goja.Value {
	deg := bd.number("turn", call)
	bd.check("turn", bd.agent().Turn(deg))
	return goja.Undefined()
}

func (bd *binder) shoot(goja.FunctionCall) goja.Value {
	bd.check("shoot", bd.agent().Shoot())
	return goja.Undefined()
}

func (bd *binder) raycast(goja.FunctionCall) goja.Value {
	return bd.vm.ToValue(bd.sense("raycast").Category)
}

func (bd *binder) raycastDist(goja.FunctionCall) goja.Value {
	return bd.vm.ToValue(bd.sense("raycast_dist").Distance)
}

func (bd *binder) x(goja.FunctionCall) goja.Value {
	return bd.vm.ToValue(bd.sense("x").Position.X)
}

func (bd *binder) y(goja.FunctionCall) goja.Value {
	return bd.vm.ToValue(bd.sense("y").Position.Y)
}

func (bd *binder) print(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	bd.log.Info(strings.Join(parts, " "))
	return goja.Undefined()
}

func (bd *binder) agent() agent.Bindings {
	if bd.b == nil {
		panic(bd.vm.NewGoError(agent.ErrNoAgentContext))
	}
	return bd.b
}

func (bd *binder) sense(name string) agent.Snapshot {
	snap, err := bd.agent().Sense()
	bd.check(name, err)
	return snap
}

// number returns the first argument, throwing a TypeError unless it is a number.
func (bd *binder) number(name string, call goja.FunctionCall) float64 {
	arg := call.Argument(0)
	switch v := arg.Export().(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	panic(bd.vm.NewTypeError("%s: expected a number, got %s", name, describe(arg)))
}

func (bd *binder) check(name string, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, agent.ErrInvalidAmount):
		panic(bd.vm.NewTypeError("%s: %v", name, err))
	default:
		panic(bd.vm.NewGoError(errors.Wrap(err, name)))
	}
}

func describe(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return fmt.Sprintf("%q", v.String())
}
