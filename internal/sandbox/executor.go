// Package sandbox runs a transpiled component inside an isolated goja runtime.
//
// The runtime holds only ECMAScript built-ins. The snippet body is wrapped in a
// factory whose parameters are the whitelisted capabilities; nothing else from
// the host is reachable.
package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"genesis-backend/internal/ui"

	"github.com/dop251/goja"
)

const (
	DefaultTimeout = 2 * time.Second
	maxCallStack   = 512
	maxDepth       = 128
)

// BindingNames are the factory parameters, in order.
var BindingNames = []string{"React", "useState", "useEffect", "useMemo", "useCallback", "useRef", "Fragment"}

const hooksPrelude = `(function () {
  var noop = function () {};
  return {
    useState: function (init) { return [typeof init === "function" ? init() : init, noop]; },
    useReducer: function (reducer, init) { return [init, noop]; },
    useEffect: noop,
    useLayoutEffect: noop,
    useMemo: function (fn) { return fn(); },
    useCallback: function (fn) { return fn; },
    useRef: function (init) { return { current: init }; },
    useContext: function () { return undefined; },
    memo: function (c) { return c; },
    forwardRef: function (c) { return c; }
  };
})()`

type Executor struct {
	timeout time.Duration
}

func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Component is an executed snippet ready to render. Render calls are serialised
// because a goja runtime is single threaded.
type Component struct {
	Name string

	mu      sync.Mutex
	vm      *goja.Runtime
	fn      goja.Callable
	timeout time.Duration
}

// element is what createElement records. Function types are expanded later from Go.
type element struct {
	Type     goja.Value
	Props    *goja.Object
	Children []goja.Value
}

// Execute locates the component, constructs the factory, invokes it with the
// capability bindings and verifies the result is callable.
func (e *Executor) Execute(executable string) (*Component, error) {
	name, body, err := Locate(executable)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStack)
	vm.GlobalObject().Delete("eval")

	stop := arm(vm, e.timeout)
	defer stop()

	bindings, err := newBindings(vm)
	if err != nil {
		return nil, &ExecutionError{Stage: "construct", Name: name, Err: err}
	}

	src := fmt.Sprintf("(function (%s) {\n%s\nreturn %s;\n})", strings.Join(BindingNames, ", "), body, name)
	factoryValue, err := vm.RunString(src)
	if err != nil {
		return nil, &ExecutionError{Stage: "construct", Name: name, Err: e.describe(err)}
	}
	factory, ok := goja.AssertFunction(factoryValue)
	if !ok {
		return nil, &ExecutionError{Stage: "construct", Name: name, Err: errors.New("factory is not callable")}
	}

	value, err := factory(goja.Undefined(), bindings...)
	if err != nil {
		return nil, &ExecutionError{Stage: "invoke", Name: name, Err: e.describe(err)}
	}

	fn, ok := goja.AssertFunction(value)
	if !ok {
		return nil, &InvalidComponentError{Name: name, Kind: kindOf(value)}
	}

	return &Component{Name: name, vm: vm, fn: fn, timeout: e.timeout}, nil
}

// Render calls the component with props and converts the element tree.
func (c *Component) Render(props map[string]interface{}) (*ui.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stop := arm(c.vm, c.timeout)
	defer stop()

	p := c.vm.NewObject()
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.Set(k, props[k]); err != nil {
			return nil, &ExecutionError{Stage: "render", Name: c.Name, Err: err}
		}
	}

	out, err := c.fn(goja.Undefined(), p)
	if err != nil {
		return nil, &ExecutionError{Stage: "render", Name: c.Name, Err: c.describe(err)}
	}

	nodes, err := c.expand(out, 0)
	if err != nil {
		return nil, &ExecutionError{Stage: "render", Name: c.Name, Err: c.describe(err)}
	}
	switch len(nodes) {
	case 0:
		return nil, &ExecutionError{Stage: "render", Name: c.Name, Err: ErrEmptyRender}
	case 1:
		return nodes[0], nil
	default:
		return ui.Fragment(nodes...), nil
	}
}

func newBindings(vm *goja.Runtime) ([]goja.Value, error) {
	hooksValue, err := vm.RunString(hooksPrelude)
	if err != nil {
		return nil, err
	}
	hooks := hooksValue.ToObject(vm)

	react := vm.NewObject()
	for _, k := range hooks.Keys() {
		if err := react.Set(k, hooks.Get(k)); err != nil {
			return nil, err
		}
	}
	createElement := func(call goja.FunctionCall) goja.Value {
		el := &element{Type: call.Argument(0)}
		if props := call.Argument(1); !nullish(props) {
			el.Props = props.ToObject(vm)
		}
		// Arguments aliases the VM stack and is overwritten by the next call.
		if len(call.Arguments) > 2 {
			el.Children = append([]goja.Value(nil), call.Arguments[2:]...)
		}
		return vm.ToValue(el)
	}
	if err := react.Set("createElement", createElement); err != nil {
		return nil, err
	}
	if err := react.Set("Fragment", ui.FragmentTag); err != nil {
		return nil, err
	}

	return []goja.Value{
		react,
		hooks.Get("useState"),
		hooks.Get("useEffect"),
		hooks.Get("useMemo"),
		hooks.Get("useCallback"),
		hooks.Get("useRef"),
		vm.ToValue(ui.FragmentTag),
	}, nil
}

// arm interrupts the runtime once timeout elapses. The returned func disarms it;
// after it returns no interrupt can reach the runtime.
func arm(vm *goja.Runtime, timeout time.Duration) func() {
	var mu sync.Mutex
	finished := false
	timer := time.AfterFunc(timeout, func() {
		mu.Lock()
		defer mu.Unlock()
		if !finished {
			vm.Interrupt(ErrTimeout)
		}
	})
	return func() {
		mu.Lock()
		finished = true
		mu.Unlock()
		timer.Stop()
		vm.ClearInterrupt()
	}
}

func (e *Executor) describe(err error) error {
	return describe(err, e.timeout)
}

func (c *Component) describe(err error) error {
	return describe(err, c.timeout)
}

func describe(err error, timeout time.Duration) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return err
}

func nullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func kindOf(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	}
	return fmt.Sprintf("%T", v.Export())
}
