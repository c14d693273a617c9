package mal

// bootstrapForms are evaluated against the root environment once builtins
// are installed, defining the handful of operations that are simpler to
// express in mal itself than as native functions (spec.md §4.6).
var bootstrapForms = []string{
	`(def! not (fn* (a) (if a false true)))`,
	`(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) "\nnil)")))))`,
	`(defmacro! cond (fn* (& xs) (if (> (count xs) 0) (list 'if (first xs) (if (> (count xs) 1) (nth xs 1) (throw "odd number of forms to cond")) (cons 'cond (rest (rest xs)))))))`,
	`(defmacro! or (fn* (& xs) (if (empty? xs) nil (if (= (count xs) 1) (first xs) (list 'let* (list 'or_FIRST (first xs)) (list 'if 'or_FIRST 'or_FIRST (cons 'or (rest xs))))))))`,
}

// Bootstrap evaluates the bootstrap forms against env, which must already
// have the native builtin table installed.
func Bootstrap(env *Environment) error {
	for _, src := range bootstrapForms {
		ast, err := ReadStr(src)
		if err != nil {
			return err
		}
		if _, err := Eval(ast, env); err != nil {
			return err
		}
	}
	return nil
}
