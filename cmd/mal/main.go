// Command mal is a small Clojure-inspired Lisp interpreter: run it with no
// arguments for an interactive REPL, or give it a script to load and run.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dspinellis/mal-go/pkg/mal"
	"github.com/dspinellis/mal-go/pkg/replshell"
)

func main() {
	var (
		eval     = flag.String("e", "", "evaluate code directly instead of reading from a file")
		noColors = flag.Bool("no-color", false, "disable colored REPL output")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                  # start interactive REPL\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s script.mal       # load and run a script\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -e '(+ 1 2 3)'   # evaluate code directly\n", os.Args[0])
	}
	flag.Parse()

	env, err := mal.NewRootEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mal: bootstrap error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	// The first positional argument (if any) is the script path consumed
	// below by load-file; *ARGV* binds only the arguments after it.
	extra := args
	if len(args) > 0 {
		extra = args[1:]
	}
	argv := make([]mal.Value, len(extra))
	for i, a := range extra {
		argv[i] = mal.String(a)
	}
	env.Set(mal.Intern("*ARGV*"), mal.NewVector(argv...))

	if *eval != "" {
		out, err := mal.Rep(*eval, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mal: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	if len(args) > 0 {
		script := fmt.Sprintf("(load-file %q)", args[0])
		if _, err := mal.Rep(script, env); err != nil {
			fmt.Fprintf(os.Stderr, "mal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := replshell.Run(env, !*noColors); err != nil {
		fmt.Fprintf(os.Stderr, "mal: %v\n", err)
		os.Exit(1)
	}
}
