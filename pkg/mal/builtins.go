package mal

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// InstallBuiltins binds the native function table of spec.md §4.5 (plus the
// domain-stack extensions of SPEC_FULL.md §4.7) into env.
func InstallBuiltins(env *Environment) {
	reg := func(name string, fn NativeFunc) {
		env.Set(Intern(name), &NativeFunction{Name: name, Fn: fn})
	}

	registerArithmetic(reg)
	registerComparison(reg)
	registerPredicates(reg)
	registerSequenceOps(reg)
	registerMapOps(reg)
	registerIO(reg)
	registerAtoms(reg)
	registerMisc(reg)
	registerMathExtras(reg)
	registerStringExtras(reg)
}

func requireNumber(v Value, who string) (Number, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, NewTypeError(fmt.Sprintf("%s requires numbers, got %T", who, v))
	}
	return n, nil
}

func registerArithmetic(reg func(string, NativeFunc)) {
	reg("+", func(args []Value) (Value, error) {
		var sum Number
		for _, a := range args {
			n, err := requireNumber(a, "+")
			if err != nil {
				return nil, err
			}
			sum += n
		}
		return sum, nil
	})
	reg("-", func(args []Value) (Value, error) {
		if len(args) == 0 {
			return nil, NewArityError("- requires at least 1 argument")
		}
		first, err := requireNumber(args[0], "-")
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return -first, nil
		}
		result := first
		for _, a := range args[1:] {
			n, err := requireNumber(a, "-")
			if err != nil {
				return nil, err
			}
			result -= n
		}
		return result, nil
	})
	reg("*", func(args []Value) (Value, error) {
		result := Number(1)
		for _, a := range args {
			n, err := requireNumber(a, "*")
			if err != nil {
				return nil, err
			}
			result *= n
		}
		return result, nil
	})
	reg("/", func(args []Value) (Value, error) {
		if len(args) == 0 {
			return nil, NewArityError("/ requires at least 1 argument")
		}
		first, err := requireNumber(args[0], "/")
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			if first == 0 {
				return nil, NewTypeError("division by zero")
			}
			return 1 / first, nil
		}
		result := first
		for _, a := range args[1:] {
			n, err := requireNumber(a, "/")
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, NewTypeError("division by zero")
			}
			result /= n
		}
		return result, nil
	})
}

func registerComparison(reg func(string, NativeFunc)) {
	reg("=", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("= requires exactly 2 arguments")
		}
		return Bool(equalValues(args[0], args[1])), nil
	})

	order := map[string]func(a, b Number) bool{
		"<":  func(a, b Number) bool { return a < b },
		"<=": func(a, b Number) bool { return a <= b },
		">":  func(a, b Number) bool { return a > b },
		">=": func(a, b Number) bool { return a >= b },
	}
	for name, cmp := range order {
		cmp := cmp
		name := name
		reg(name, func(args []Value) (Value, error) {
			if len(args) != 2 {
				return nil, NewArityError(name + " requires exactly 2 arguments")
			}
			a, err := requireNumber(args[0], name)
			if err != nil {
				return nil, err
			}
			b, err := requireNumber(args[1], name)
			if err != nil {
				return nil, err
			}
			return Bool(cmp(a, b)), nil
		})
	}
}

func registerPredicates(reg func(string, NativeFunc)) {
	unary := func(name string, pred func(Value) bool) {
		reg(name, func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, NewArityError(name + " requires exactly 1 argument")
			}
			return Bool(pred(args[0])), nil
		})
	}

	unary("nil?", func(v Value) bool { _, ok := v.(Nil); return ok })
	unary("true?", func(v Value) bool { b, ok := v.(Bool); return ok && bool(b) })
	unary("false?", func(v Value) bool { b, ok := v.(Bool); return ok && !bool(b) })
	unary("symbol?", func(v Value) bool { _, ok := v.(*Symbol); return ok })
	unary("keyword?", func(v Value) bool { _, ok := v.(*Keyword); return ok })
	unary("vector?", func(v Value) bool { _, ok := v.(*Vector); return ok })
	unary("list?", func(v Value) bool { _, ok := v.(*List); return ok })
	unary("sequential?", func(v Value) bool { _, ok := asSequential(v); return ok })
	unary("map?", func(v Value) bool { _, ok := v.(*HashMap); return ok })
	unary("fn?", func(v Value) bool {
		switch f := v.(type) {
		case *NativeFunction:
			return true
		case *Function:
			return !f.IsMacro
		}
		return false
	})
	unary("macro?", func(v Value) bool { f, ok := v.(*Function); return ok && f.IsMacro })
	unary("atom?", func(v Value) bool { _, ok := v.(*Atom); return ok })
	unary("string?", func(v Value) bool { _, ok := v.(String); return ok })
	unary("number?", func(v Value) bool { _, ok := v.(Number); return ok })
}

func registerSequenceOps(reg func(string, NativeFunc)) {
	reg("list", func(args []Value) (Value, error) { return NewList(args...), nil })
	reg("vector", func(args []Value) (Value, error) { return NewVector(args...), nil })

	reg("count", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("count requires exactly 1 argument")
		}
		if _, ok := args[0].(Nil); ok {
			return Number(0), nil
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("count requires a list, vector, or nil")
		}
		return Number(len(elems)), nil
	})

	reg("empty?", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("empty? requires exactly 1 argument")
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("empty? requires a list or vector")
		}
		return Bool(len(elems) == 0), nil
	})

	reg("cons", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("cons requires exactly 2 arguments")
		}
		rest, ok := asSequential(args[1])
		if !ok {
			return nil, NewTypeError("cons requires a list or vector as its second argument")
		}
		return NewList(append([]Value{args[0]}, rest...)...), nil
	})

	reg("concat", func(args []Value) (Value, error) {
		var elems []Value
		for _, a := range args {
			seq, ok := asSequential(a)
			if !ok {
				return nil, NewTypeError("concat requires lists or vectors")
			}
			elems = append(elems, seq...)
		}
		return NewList(elems...), nil
	})

	reg("nth", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("nth requires exactly 2 arguments")
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("nth requires a list or vector")
		}
		idx, err := requireNumber(args[1], "nth")
		if err != nil {
			return nil, err
		}
		if int(idx) < 0 || int(idx) >= len(elems) {
			return nil, NewTypeError(fmt.Sprintf("nth index %d out of bounds for length %d", idx, len(elems)))
		}
		return elems[idx], nil
	})

	reg("first", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("first requires exactly 1 argument")
		}
		if _, ok := args[0].(Nil); ok {
			return NilValue, nil
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("first requires a list, vector, or nil")
		}
		if len(elems) == 0 {
			return NilValue, nil
		}
		return elems[0], nil
	})

	reg("rest", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("rest requires exactly 1 argument")
		}
		if _, ok := args[0].(Nil); ok {
			return NewList(), nil
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("rest requires a list, vector, or nil")
		}
		if len(elems) <= 1 {
			return NewList(), nil
		}
		return NewList(elems[1:]...), nil
	})

	reg("vec", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("vec requires exactly 1 argument")
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("vec requires a list or vector")
		}
		return NewVector(elems...), nil
	})

	reg("map", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("map requires exactly 2 arguments")
		}
		elems, ok := asSequential(args[1])
		if !ok {
			return nil, NewTypeError("map requires a list or vector as its second argument")
		}
		results := make([]Value, len(elems))
		for i, e := range elems {
			v, err := ApplyValue(args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			results[i] = v
		}
		return NewList(results...), nil
	})

	reg("apply", func(args []Value) (Value, error) {
		if len(args) < 2 {
			return nil, NewArityError("apply requires at least 2 arguments")
		}
		last := args[len(args)-1]
		tail, ok := asSequential(last)
		if !ok {
			return nil, NewTypeError("apply's last argument must be a list or vector")
		}
		callArgs := append(append([]Value{}, args[1:len(args)-1]...), tail...)
		return ApplyValue(args[0], callArgs)
	})
}

func registerMapOps(reg func(string, NativeFunc)) {
	reg("hash-map", func(args []Value) (Value, error) {
		if len(args)%2 != 0 {
			return nil, NewArityError("hash-map requires an even number of arguments")
		}
		hm := NewHashMap()
		var err error
		for i := 0; i < len(args); i += 2 {
			hm, err = hm.Assoc(args[i], args[i+1])
			if err != nil {
				return nil, err
			}
		}
		return hm, nil
	})

	reg("assoc", func(args []Value) (Value, error) {
		if len(args) < 1 || len(args)%2 != 1 {
			return nil, NewArityError("assoc requires a hash-map and an even number of key/value forms")
		}
		hm, ok := args[0].(*HashMap)
		if !ok {
			return nil, NewTypeError("assoc requires a hash-map")
		}
		var err error
		for i := 1; i < len(args); i += 2 {
			hm, err = hm.Assoc(args[i], args[i+1])
			if err != nil {
				return nil, err
			}
		}
		return hm, nil
	})

	reg("dissoc", func(args []Value) (Value, error) {
		if len(args) < 1 {
			return nil, NewArityError("dissoc requires at least 1 argument")
		}
		hm, ok := args[0].(*HashMap)
		if !ok {
			return nil, NewTypeError("dissoc requires a hash-map")
		}
		var err error
		for _, k := range args[1:] {
			hm, err = hm.Dissoc(k)
			if err != nil {
				return nil, err
			}
		}
		return hm, nil
	})

	reg("get", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("get requires exactly 2 arguments")
		}
		if _, ok := args[0].(Nil); ok {
			return NilValue, nil
		}
		hm, ok := args[0].(*HashMap)
		if !ok {
			return nil, NewTypeError("get requires a hash-map or nil")
		}
		return hm.Get(args[1]), nil
	})

	reg("contains?", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("contains? requires exactly 2 arguments")
		}
		hm, ok := args[0].(*HashMap)
		if !ok {
			return nil, NewTypeError("contains? requires a hash-map")
		}
		return Bool(hm.Contains(args[1])), nil
	})

	reg("keys", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("keys requires exactly 1 argument")
		}
		hm, ok := args[0].(*HashMap)
		if !ok {
			return nil, NewTypeError("keys requires a hash-map")
		}
		return NewList(hm.Keys()...), nil
	})

	reg("vals", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("vals requires exactly 1 argument")
		}
		hm, ok := args[0].(*HashMap)
		if !ok {
			return nil, NewTypeError("vals requires a hash-map")
		}
		vals := make([]Value, 0, hm.Count())
		for _, k := range hm.Keys() {
			vals = append(vals, hm.Get(k))
		}
		return NewList(vals...), nil
	})
}

func registerIO(reg func(string, NativeFunc)) {
	reg("pr-str", func(args []Value) (Value, error) {
		return String(PrStrAll(args, " ", true)), nil
	})
	reg("str", func(args []Value) (Value, error) {
		return String(PrStrAll(args, "", false)), nil
	})
	reg("prn", func(args []Value) (Value, error) {
		fmt.Println(PrStrAll(args, " ", true))
		return NilValue, nil
	})
	reg("println", func(args []Value) (Value, error) {
		fmt.Println(PrStrAll(args, " ", false))
		return NilValue, nil
	})
	reg("slurp", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("slurp requires exactly 1 argument")
		}
		path, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("slurp requires a string path")
		}
		data, err := os.ReadFile(string(path))
		if err != nil {
			return nil, NewTypeError(err.Error())
		}
		return String(data), nil
	})
}

func registerAtoms(reg func(string, NativeFunc)) {
	reg("atom", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("atom requires exactly 1 argument")
		}
		return NewAtom(args[0]), nil
	})
	reg("deref", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("deref requires exactly 1 argument")
		}
		a, ok := args[0].(*Atom)
		if !ok {
			return nil, NewTypeError("deref requires an atom")
		}
		return a.Deref(), nil
	})
	reg("reset!", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("reset! requires exactly 2 arguments")
		}
		a, ok := args[0].(*Atom)
		if !ok {
			return nil, NewTypeError("reset! requires an atom")
		}
		return a.Reset(args[1]), nil
	})
	reg("swap!", func(args []Value) (Value, error) {
		if len(args) < 2 {
			return nil, NewArityError("swap! requires at least 2 arguments")
		}
		a, ok := args[0].(*Atom)
		if !ok {
			return nil, NewTypeError("swap! requires an atom")
		}
		callArgs := append([]Value{a.Deref()}, args[2:]...)
		newValue, err := ApplyValue(args[1], callArgs)
		if err != nil {
			return nil, err
		}
		return a.Reset(newValue), nil
	})
}

func registerMisc(reg func(string, NativeFunc)) {
	reg("throw", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("throw requires exactly 1 argument")
		}
		return nil, NewUserThrow(args[0])
	})
	reg("read-string", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("read-string requires exactly 1 argument")
		}
		s, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("read-string requires a string")
		}
		return ReadStr(string(s))
	})
	reg("symbol", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("symbol requires exactly 1 argument")
		}
		s, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("symbol requires a string")
		}
		return Intern(string(s)), nil
	})
	reg("keyword", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("keyword requires exactly 1 argument")
		}
		switch v := args[0].(type) {
		case String:
			return InternKeyword(string(v)), nil
		case *Keyword:
			return v, nil
		default:
			return nil, NewTypeError("keyword requires a string")
		}
	})
	reg("with-meta", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("with-meta requires exactly 2 arguments")
		}
		fn, ok := args[0].(*Function)
		if !ok {
			return args[0], nil
		}
		copied := *fn
		copied.Meta = args[1]
		return &copied, nil
	})
	reg("meta", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("meta requires exactly 1 argument")
		}
		if fn, ok := args[0].(*Function); ok && fn.Meta != nil {
			return fn.Meta, nil
		}
		return NilValue, nil
	})
}

// ApplyValue invokes fn (a Function or NativeFunction) on args, recursing
// into Eval on the host stack. Used by apply/map/swap! which call back into
// the evaluator from native code rather than from a tail position.
func ApplyValue(fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *NativeFunction:
		return f.Fn(args)
	case *Function:
		newEnv, err := f.Env.BindParams(f.Params, args)
		if err != nil {
			return nil, err
		}
		return Eval(f.Body, newEnv)
	default:
		return nil, NewNotCallableError(fn)
	}
}

func registerMathExtras(reg func(string, NativeFunc)) {
	unaryMath := func(name string, fn func(float64) float64) {
		reg(name, func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, NewArityError(name + " requires exactly 1 argument")
			}
			n, err := requireNumber(args[0], name)
			if err != nil {
				return nil, err
			}
			return Number(int64(fn(float64(n)))), nil
		})
	}
	unaryMath("sqrt", math.Sqrt)
	unaryMath("abs", math.Abs)
	unaryMath("floor", math.Floor)
	unaryMath("ceil", math.Ceil)

	reg("pow", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("pow requires exactly 2 arguments")
		}
		base, err := requireNumber(args[0], "pow")
		if err != nil {
			return nil, err
		}
		exp, err := requireNumber(args[1], "pow")
		if err != nil {
			return nil, err
		}
		return Number(int64(math.Pow(float64(base), float64(exp)))), nil
	})

	reg("mod", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("mod requires exactly 2 arguments")
		}
		a, err := requireNumber(args[0], "mod")
		if err != nil {
			return nil, err
		}
		b, err := requireNumber(args[1], "mod")
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, NewTypeError("modulo by zero")
		}
		return a % b, nil
	})

	minmax := func(name string, pick func(a, b Number) Number) {
		reg(name, func(args []Value) (Value, error) {
			if len(args) == 0 {
				return nil, NewArityError(name + " requires at least 1 argument")
			}
			best, err := requireNumber(args[0], name)
			if err != nil {
				return nil, err
			}
			for _, a := range args[1:] {
				n, err := requireNumber(a, name)
				if err != nil {
					return nil, err
				}
				best = pick(best, n)
			}
			return best, nil
		})
	}
	minmax("min", func(a, b Number) Number {
		if b < a {
			return b
		}
		return a
	})
	minmax("max", func(a, b Number) Number {
		if b > a {
			return b
		}
		return a
	})

	reg("time-ms", func(args []Value) (Value, error) {
		return Number(time.Now().UnixMilli()), nil
	})
}

func registerStringExtras(reg func(string, NativeFunc)) {
	reg("subs", func(args []Value) (Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return nil, NewArityError("subs requires 2 or 3 arguments")
		}
		s, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("subs requires a string")
		}
		start, err := requireNumber(args[1], "subs")
		if err != nil {
			return nil, err
		}
		end := Number(len(s))
		if len(args) == 3 {
			end, err = requireNumber(args[2], "subs")
			if err != nil {
				return nil, err
			}
		}
		if start < 0 || end > Number(len(s)) || start > end {
			return nil, NewTypeError("subs index out of bounds")
		}
		return String(string(s)[start:end]), nil
	})

	reg("split", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("split requires exactly 2 arguments")
		}
		s, ok1 := args[0].(String)
		sep, ok2 := args[1].(String)
		if !ok1 || !ok2 {
			return nil, NewTypeError("split requires strings")
		}
		parts := strings.Split(string(s), string(sep))
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = String(p)
		}
		return NewList(elems...), nil
	})

	reg("join", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, NewArityError("join requires exactly 2 arguments")
		}
		sep, ok := args[1].(String)
		if !ok {
			return nil, NewTypeError("join requires a string separator")
		}
		elems, ok := asSequential(args[0])
		if !ok {
			return nil, NewTypeError("join requires a list or vector")
		}
		parts := make([]string, len(elems))
		for i, e := range elems {
			s, ok := e.(String)
			if !ok {
				return nil, NewTypeError("join requires a list or vector of strings")
			}
			parts[i] = string(s)
		}
		return String(strings.Join(parts, string(sep))), nil
	})

	reg("replace", func(args []Value) (Value, error) {
		if len(args) != 3 {
			return nil, NewArityError("replace requires exactly 3 arguments")
		}
		s, ok1 := args[0].(String)
		old, ok2 := args[1].(String)
		new, ok3 := args[2].(String)
		if !ok1 || !ok2 || !ok3 {
			return nil, NewTypeError("replace requires strings")
		}
		return String(strings.ReplaceAll(string(s), string(old), string(new))), nil
	})

	reg("trim", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("trim requires exactly 1 argument")
		}
		s, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("trim requires a string")
		}
		return String(strings.TrimSpace(string(s))), nil
	})

	reg("upper-case", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("upper-case requires exactly 1 argument")
		}
		s, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("upper-case requires a string")
		}
		return String(strings.ToUpper(string(s))), nil
	})

	reg("lower-case", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("lower-case requires exactly 1 argument")
		}
		s, ok := args[0].(String)
		if !ok {
			return nil, NewTypeError("lower-case requires a string")
		}
		return String(strings.ToLower(string(s))), nil
	})
}
