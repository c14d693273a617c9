package mal

import "testing"

func evalStr(t *testing.T, src string, env *Environment) Value {
	t.Helper()
	ast, err := ReadStr(src)
	if err != nil {
		t.Fatalf("ReadStr(%q) error: %v", src, err)
	}
	v, err := Eval(ast, env)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return v
}

func newTestEnv(t *testing.T) *Environment {
	t.Helper()
	env, err := NewRootEnv()
	if err != nil {
		t.Fatalf("NewRootEnv error: %v", err)
	}
	return env
}

func TestEvalArithmetic(t *testing.T) {
	env := newTestEnv(t)
	if v := evalStr(t, "(+ 1 2 3)", env); v != Number(6) {
		t.Errorf("got %v, want 6", v)
	}
	if v := evalStr(t, "(* 2 3 4)", env); v != Number(24) {
		t.Errorf("got %v, want 24", v)
	}
	if v := evalStr(t, "(- 10 1 2)", env); v != Number(7) {
		t.Errorf("got %v, want 7", v)
	}
}

func TestEvalLetAndDo(t *testing.T) {
	env := newTestEnv(t)
	if v := evalStr(t, "(let* (a 1 b 2) (+ a b))", env); v != Number(3) {
		t.Errorf("got %v, want 3", v)
	}
	if v := evalStr(t, "(do 1 2 3)", env); v != Number(3) {
		t.Errorf("got %v, want 3", v)
	}
}

func TestEvalLetDoesNotMutateOuter(t *testing.T) {
	env := newTestEnv(t)
	evalStr(t, "(def! a 1)", env)
	evalStr(t, "(let* (a 2) a)", env)
	if v := evalStr(t, "a", env); v != Number(1) {
		t.Errorf("let* leaked into outer scope: a = %v, want 1", v)
	}
}

func TestEvalFnAndClosures(t *testing.T) {
	env := newTestEnv(t)
	evalStr(t, "(def! square (fn* (x) (* x x)))", env)
	if v := evalStr(t, "(square 5)", env); v != Number(25) {
		t.Errorf("got %v, want 25", v)
	}

	evalStr(t, "(def! make-adder (fn* (n) (fn* (x) (+ x n))))", env)
	evalStr(t, "(def! add5 (make-adder 5))", env)
	evalStr(t, "(def! n 999)", env)
	if v := evalStr(t, "(add5 1)", env); v != Number(6) {
		t.Errorf("closure captured env incorrectly: got %v, want 6", v)
	}
}

func TestEvalQuoteIsIdentity(t *testing.T) {
	env := newTestEnv(t)
	v := evalStr(t, "'(1 2 3)", env)
	if PrStr(v, true) != "(1 2 3)" {
		t.Errorf("got %s", PrStr(v, true))
	}
}

func TestEvalIfShortCircuits(t *testing.T) {
	env := newTestEnv(t)
	if v := evalStr(t, `(if true "yes" (throw "boom"))`, env); v != String("yes") {
		t.Errorf("got %v", v)
	}
	if v := evalStr(t, "(if false 1)", env); v != NilValue {
		t.Errorf("if with no else and false condition should be nil, got %v", v)
	}
}

func TestEvalTryCatch(t *testing.T) {
	env := newTestEnv(t)
	v := evalStr(t, `(try* (throw "oops") (catch* e (str "caught: " e)))`, env)
	if v != String("caught: oops") {
		t.Errorf("got %v", v)
	}
}

func TestEvalTryCatchesNativeErrors(t *testing.T) {
	env := newTestEnv(t)
	v := evalStr(t, `(try* (nth (list 1 2) 5) (catch* e "out of bounds"))`, env)
	if v != String("out of bounds") {
		t.Errorf("got %v", v)
	}
}

func TestEvalMacroexpandAndMacro(t *testing.T) {
	env := newTestEnv(t)
	evalStr(t, `(defmacro! unless (fn* (pred a b) (list 'if pred b a)))`, env)
	if v := evalStr(t, `(unless false 7 8)`, env); v != Number(7) {
		t.Errorf("got %v, want 7", v)
	}

	// The macroexpand form tail-continues with the expansion (if false 8 7),
	// so its result is that expansion's value.
	expanded := evalStr(t, `(macroexpand (unless false 7 8))`, env)
	if PrStr(expanded, true) != "7" {
		t.Errorf("macroexpand result = %s", PrStr(expanded, true))
	}
}

func TestEvalAtoms(t *testing.T) {
	env := newTestEnv(t)
	evalStr(t, "(def! counter (atom 0))", env)
	evalStr(t, "(swap! counter (fn* (n) (+ n 1)))", env)
	evalStr(t, "(swap! counter (fn* (n) (+ n 1)))", env)
	if v := evalStr(t, "(deref counter)", env); v != Number(2) {
		t.Errorf("got %v, want 2", v)
	}
}

func TestBootstrapForms(t *testing.T) {
	env := newTestEnv(t)
	if v := evalStr(t, "(not false)", env); v != Bool(true) {
		t.Errorf("(not false) = %v", v)
	}
	if v := evalStr(t, "(or nil false 3)", env); v != Number(3) {
		t.Errorf("(or nil false 3) = %v, want 3", v)
	}
	if v := evalStr(t, `(cond false 1 false 2 :else 3)`, env); v != Number(3) {
		t.Errorf("(cond ...) = %v, want 3", v)
	}
}

func TestEvalHashMapApplication(t *testing.T) {
	env := newTestEnv(t)
	v := evalStr(t, `(get {"a" 1 "b" 2} "b")`, env)
	if v != Number(2) {
		t.Errorf("got %v, want 2", v)
	}
}
