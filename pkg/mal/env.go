package mal

import "fmt"

// Environment is a lexically-scoped name->term frame with an owning link to
// its parent (absent at the root). Frames form a tree; a child keeps its
// parent alive for as long as any closure captured it (spec.md §4.3, §9).
type Environment struct {
	bindings map[*Symbol]Value
	parent   *Environment
}

// NewEnvironment creates a frame parented to parent (nil for the root).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		bindings: make(map[*Symbol]Value),
		parent:   parent,
	}
}

// Set binds sym in this frame and returns the stored term.
func (e *Environment) Set(sym *Symbol, value Value) Value {
	e.bindings[sym] = value
	return value
}

// find returns the nearest ancestor frame (including e) that binds sym, or nil.
func (e *Environment) find(sym *Symbol) *Environment {
	for frame := e; frame != nil; frame = frame.parent {
		if _, ok := frame.bindings[sym]; ok {
			return frame
		}
	}
	return nil
}

// Root walks up to the global environment, captured once and always passed
// as the resumption env for the `eval` special form (spec.md §4.4, §9).
func (e *Environment) Root() *Environment {
	frame := e
	for frame.parent != nil {
		frame = frame.parent
	}
	return frame
}

// Has reports whether sym is bound in this frame or an ancestor.
func (e *Environment) Has(sym *Symbol) bool {
	return e.find(sym) != nil
}

// Get returns the bound term for sym, or an UnboundSymbol error.
func (e *Environment) Get(sym *Symbol) (Value, error) {
	frame := e.find(sym)
	if frame == nil {
		return nil, NewUnboundSymbolError(sym)
	}
	return frame.bindings[sym], nil
}

// restMarker is the `&` symbol that introduces a rest parameter.
var restMarker = Intern("&")

// BindParams constructs a new frame parented to this environment, binding
// params (a sequential of Symbols, possibly with `&` penultimate) to args
// per spec.md §4.3: `&` must sit at position len-2, followed by exactly one
// rest symbol that collects all remaining arguments as a List.
func (e *Environment) BindParams(params Value, args []Value) (*Environment, error) {
	paramElems, ok := asSequential(params)
	if !ok {
		return nil, NewTypeError("function parameter list must be a list or vector")
	}

	restIndex := -1
	for i, p := range paramElems {
		sym, ok := p.(*Symbol)
		if !ok {
			return nil, NewTypeError("function parameters must be symbols")
		}
		if sym == restMarker {
			restIndex = i
			break
		}
	}

	frame := NewEnvironment(e)

	if restIndex == -1 {
		if len(args) != len(paramElems) {
			return nil, NewArityError(arityMessage(len(paramElems), len(args), false))
		}
		for i, p := range paramElems {
			frame.Set(p.(*Symbol), args[i])
		}
		return frame, nil
	}

	if restIndex != len(paramElems)-2 {
		return nil, NewInvalidRestParameterError("'&' must be followed by exactly one rest parameter")
	}
	restSym, ok := paramElems[restIndex+1].(*Symbol)
	if !ok {
		return nil, NewInvalidRestParameterError("rest parameter must be a symbol")
	}

	if len(args) < restIndex {
		return nil, NewArityError(arityMessage(restIndex, len(args), true))
	}
	for i := 0; i < restIndex; i++ {
		frame.Set(paramElems[i].(*Symbol), args[i])
	}
	frame.Set(restSym, NewList(args[restIndex:]...))

	return frame, nil
}

func arityMessage(want, got int, atLeast bool) string {
	if atLeast {
		return fmt.Sprintf("function expects at least %d argument(s), got %d", want, got)
	}
	return fmt.Sprintf("function expects %d argument(s), got %d", want, got)
}
