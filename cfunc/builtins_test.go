package cfunc

import "testing"

func TestBuiltinsLookup(t *testing.T) {
	table := Builtins()
	for _, name := range []string{"_equal", "_plus", "break", "not", "empty", "error", "length", "add", "range"} {
		if _, ok := table.Lookup(name); !ok {
			t.Errorf("Builtins() table missing %q", name)
		}
	}
	if _, ok := table.Lookup("does-not-exist"); ok {
		t.Error("Lookup should report false for an unregistered name")
	}
}

func TestBuiltinPlus(t *testing.T) {
	n, ok := Builtins().Lookup("_plus")
	if !ok {
		t.Fatal("_plus missing")
	}
	got, err := n.Impl(nil, []interface{}{1.0, 2.0})
	if err != nil {
		t.Fatalf("_plus: %v", err)
	}
	if got != 3.0 {
		t.Errorf("_plus(1,2) = %v, want 3", got)
	}
}

func TestBuiltinEqual(t *testing.T) {
	n, ok := Builtins().Lookup("_equal")
	if !ok {
		t.Fatal("_equal missing")
	}
	got, err := n.Impl(nil, []interface{}{"a", "a"})
	if err != nil {
		t.Fatalf("_equal: %v", err)
	}
	if got != true {
		t.Errorf("_equal(a,a) = %v, want true", got)
	}
	got, err = n.Impl(nil, []interface{}{"a", "b"})
	if err != nil {
		t.Fatalf("_equal: %v", err)
	}
	if got != false {
		t.Errorf("_equal(a,b) = %v, want false", got)
	}
}

func TestBuiltinRange(t *testing.T) {
	n, ok := Builtins().Lookup("range")
	if !ok {
		t.Fatal("range missing")
	}
	got, err := n.Impl(nil, []interface{}{3.0})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	vals, ok := got.([]interface{})
	if !ok || len(vals) != 3 {
		t.Fatalf("range(3) = %v, want 3-element slice", got)
	}
	if vals[0] != 0.0 || vals[2] != 2.0 {
		t.Errorf("range(3) = %v, want [0 1 2]", vals)
	}
}

func TestBuiltinErrorRequiresExplicitMessage(t *testing.T) {
	n, ok := Builtins().Lookup("error")
	if !ok {
		t.Fatal("error missing")
	}
	_, err := n.Impl(nil, []interface{}{"boom"})
	if err == nil || err.Error() != "boom" {
		t.Errorf("error(\"boom\") = %v, want an error wrapping \"boom\"", err)
	}
}

func TestBuiltinLength(t *testing.T) {
	n, ok := Builtins().Lookup("length")
	if !ok {
		t.Fatal("length missing")
	}
	got, err := n.Impl("hello", nil)
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if got != 5 {
		t.Errorf("length(\"hello\") = %v, want 5", got)
	}
}

func TestBuiltinAdd(t *testing.T) {
	n, ok := Builtins().Lookup("add")
	if !ok {
		t.Fatal("add missing")
	}
	got, err := n.Impl([]interface{}{1.0, 2.0, 3.0}, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got != 6.0 {
		t.Errorf("add([1,2,3]) = %v, want 6", got)
	}
}
