package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/shoehorn/dsl"
)

const sampleScene = `
scene Poster 210mm 120mm {
  meta {
    title: "Poster"
    keywords: [
      "fit"
      "demo"
    ]
  }

  font Body {
    src: "builtin:lmroman10regular"
  }
  color Accent = #0F62FE

  // 标题撑满整个盒子
  fit headline at 10mm 10mm size 190mm 40mm {
    mode: box
    min-size: 6pt
    max-size: 200pt
    color: #222222
    "Hello, ${user.name}!"
  }
}
`

func TestParseScene(t *testing.T) {
	doc, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Poster" {
		t.Fatalf("expected scene name Poster, got %s", doc.Name)
	}
	if len(doc.Params) != 2 || doc.Params[0].Value != "210mm" || doc.Params[1].Value != "120mm" {
		t.Fatalf("unexpected scene params: %+v", doc.Params)
	}
	if doc.Body == nil || len(doc.Body.Statements) != 4 {
		t.Fatalf("expected 4 statements in scene body, got %+v", doc.Body)
	}

	meta := doc.Body.Statements[0].Command
	if meta == nil || meta.Name != "meta" || meta.Block == nil {
		t.Fatalf("expected meta command with block, got %+v", doc.Body.Statements[0])
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || title.Value.Text() != "Poster" {
		t.Fatalf("unexpected title assignment: %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || len(keywords.Value.Strings()) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	color := doc.Body.Statements[2].Command
	if color == nil || color.Name != "color" || len(color.Args) != 3 {
		t.Fatalf("unexpected color command: %+v", doc.Body.Statements[2])
	}
	if color.Args[2].Type != "Color" || color.Args[2].Value != "#0F62FE" {
		t.Fatalf("expected color literal, got %+v", color.Args[2])
	}

	fit := doc.Body.Statements[3].Command
	if fit == nil || fit.Name != "fit" {
		t.Fatalf("expected fit command, got %+v", doc.Body.Statements[3])
	}
	if got := lexemeValues(fit.Args); got != "headline at 10mm 10mm size 190mm 40mm" {
		t.Fatalf("unexpected fit args: %s", got)
	}
	attrs := map[string]string{}
	var text string
	for _, st := range fit.Block.Statements {
		switch {
		case st.Assignment != nil:
			attrs[st.Assignment.Key] = st.Assignment.Value.Text()
		case st.Text != nil:
			text += string(st.Text.Value)
		}
	}
	want := map[string]string{"mode": "box", "min-size": "6pt", "max-size": "200pt", "color": "#222222"}
	for k, v := range want {
		if attrs[k] != v {
			t.Fatalf("attr %s: got %q want %q", k, attrs[k], v)
		}
	}
	if !strings.Contains(text, "${user.name}") {
		t.Fatalf("expected interpolation placeholder in text, got %q", text)
	}
}

func TestParsePixelSizes(t *testing.T) {
	doc, err := dsl.ParseString(`scene S 100mm 50mm {
  fit a at 0 0 size 100mm 50mm { min-size: 12px; max-size: 96px; "a" }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	fit := doc.Body.Statements[0].Command
	var got []string
	for _, st := range fit.Block.Statements {
		if st.Assignment != nil {
			got = append(got, st.Assignment.Value.Text())
		}
	}
	if strings.Join(got, " ") != "12px 96px" {
		t.Fatalf("unexpected size values: %v", got)
	}
}

func TestParseRejectsMissingSceneKeyword(t *testing.T) {
	if _, err := dsl.ParseString(`page A4 { }`); err == nil {
		t.Fatalf("expected parse error")
	}
}

func lexemeValues(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
