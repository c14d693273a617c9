package mal

import "testing"

func TestReadStrAtoms(t *testing.T) {
	cases := map[string]string{
		"123":     "123",
		"-123":    "-123",
		"nil":     "nil",
		"true":    "true",
		"false":   "false",
		"abc":     "abc",
		":kw":     ":kw",
		`"hi"`:    `"hi"`,
		"(1 2 3)": "(1 2 3)",
		"[1 2 3]": "[1 2 3]",
	}
	for input, want := range cases {
		v, err := ReadStr(input)
		if err != nil {
			t.Fatalf("ReadStr(%q) error: %v", input, err)
		}
		if got := PrStr(v, true); got != want {
			t.Errorf("ReadStr(%q) printed %q, want %q", input, got, want)
		}
	}
}

func TestReadStrQuoteForms(t *testing.T) {
	cases := map[string]string{
		"'a":  "(quote a)",
		"`a":  "(quasiquote a)",
		"~a":  "(unquote a)",
		"~@a": "(splice-unquote a)",
		"@a":  "(deref a)",
	}
	for input, want := range cases {
		v, err := ReadStr(input)
		if err != nil {
			t.Fatalf("ReadStr(%q) error: %v", input, err)
		}
		if got := PrStr(v, true); got != want {
			t.Errorf("ReadStr(%q) printed %q, want %q", input, got, want)
		}
	}
}

func TestReadStrMetaDesugars(t *testing.T) {
	v, err := ReadStr(`^{:a 1} [1 2]`)
	if err != nil {
		t.Fatalf("ReadStr error: %v", err)
	}
	list, ok := v.(*List)
	if !ok || list.Count() != 3 {
		t.Fatalf("expected (with-meta target meta), got %s", PrStr(v, true))
	}
	if head, ok := list.First().(*Symbol); !ok || head.String() != "with-meta" {
		t.Errorf("expected with-meta head, got %s", PrStr(v, true))
	}
}

func TestReadStrStringEscapes(t *testing.T) {
	v, err := ReadStr(`"a\nb\"c"`)
	if err != nil {
		t.Fatalf("ReadStr error: %v", err)
	}
	s, ok := v.(String)
	if !ok {
		t.Fatalf("expected String, got %T", v)
	}
	if string(s) != "a\nb\"c" {
		t.Errorf("got %q", string(s))
	}
}

func TestReadStrCommentsAndCommas(t *testing.T) {
	v, err := ReadStr("(1, 2, 3) ; trailing comment")
	if err != nil {
		t.Fatalf("ReadStr error: %v", err)
	}
	if got := PrStr(v, true); got != "(1 2 3)" {
		t.Errorf("got %q", got)
	}
}

func TestReadStrUnterminatedErrors(t *testing.T) {
	if _, err := ReadStr("(1 2"); err == nil {
		t.Error("expected error for unterminated list")
	}
	if _, err := ReadStr(`"unterminated`); err == nil {
		t.Error("expected error for unterminated string")
	}
}

func TestReadStrHashMap(t *testing.T) {
	v, err := ReadStr(`{"a" 1 :b 2}`)
	if err != nil {
		t.Fatalf("ReadStr error: %v", err)
	}
	hm, ok := v.(*HashMap)
	if !ok {
		t.Fatalf("expected HashMap, got %T", v)
	}
	if hm.Count() != 2 {
		t.Errorf("expected 2 entries, got %d", hm.Count())
	}
	if _, err := ReadStr(`{"a"}`); err == nil {
		t.Error("expected error for odd hash-map literal")
	}
}

func TestReadStrRoundTrip(t *testing.T) {
	inputs := []string{
		"(+ 1 2 (* 3 4))",
		`["a" "b" :c nil true false]`,
		"(fn* (a & b) (cons a b))",
	}
	for _, in := range inputs {
		v, err := ReadStr(in)
		if err != nil {
			t.Fatalf("ReadStr(%q) error: %v", in, err)
		}
		if got := PrStr(v, true); got != in {
			t.Errorf("round trip mismatch: input %q, printed %q", in, got)
		}
	}
}
