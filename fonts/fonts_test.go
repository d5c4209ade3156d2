package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, src := range []string{"builtin:lmroman10regular", "built-in:LMSans10Regular", "lmmono10regular"} {
		data, err := Load(src)
		if err != nil {
			t.Fatalf("Load(%q): %v", src, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q): empty font data", src)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("builtin:comic-sans"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}

func TestNamesIncludesDefault(t *testing.T) {
	found := false
	for _, n := range Names() {
		if n == Default {
			found = true
		}
	}
	if !found {
		t.Fatalf("default font %s missing from %v", Default, Names())
	}
	if !IsBuiltin("builtin:x") || IsBuiltin("fonts/x.ttf") {
		t.Fatalf("IsBuiltin misclassified sources")
	}
}
