package mal

// NewRootEnv builds a root environment with the native builtin table and
// the bootstrap forms (not, load-file, cond, or) already installed.
func NewRootEnv() (*Environment, error) {
	env := NewEnvironment(nil)
	InstallBuiltins(env)
	env.Set(Intern("eval"), &NativeFunction{Name: "eval", Fn: func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewArityError("eval requires exactly 1 argument")
		}
		return Eval(args[0], env.Root())
	}})
	if err := Bootstrap(env); err != nil {
		return nil, err
	}
	return env, nil
}

// Rep reads, evaluates, and prints a single line of source against env,
// returning the printed (readable) representation of the result.
func Rep(input string, env *Environment) (string, error) {
	ast, err := ReadStr(input)
	if err != nil {
		return "", err
	}
	result, err := Eval(ast, env)
	if err != nil {
		return "", err
	}
	return PrStr(result, true), nil
}
