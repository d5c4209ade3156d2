package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","tags":["a","b"]},"total":12.5,"rows":[{"id":7}]}`)
	cases := map[string]string{
		"Hello ${user.name}":      "Hello Ada",
		"${ user.tags[1] }":       "b",
		"total=${total}":          "total=12.5",
		"row ${rows[0].id}":       "row 7",
		"missing ${user.age}":     "missing ${user.age}",
		"bad ${rows[x]}":          "bad ${rows[x]}",
		"out of range ${rows[3]}": "out of range ${rows[3]}",
		"no placeholders":         "no placeholders",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("Hi ${x}", nil); got != "Hi ${x}" {
		t.Fatalf("expected text unchanged, got %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${a} and ${ b.c } and ${a}")
	if len(got) != 3 || got[0] != "a" || got[1] != "b.c" || got[2] != "a" {
		t.Fatalf("unexpected placeholders: %v", got)
	}
}
