package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/shoehorn/dsl"
)

const posterScene = `
scene Poster 200mm 100mm {
  meta {
    title: "Poster"
    keywords: ["fit", "demo"]
  }
  font Body { src: "builtin:lmroman10regular" }
  font Mono { src: "builtin:lmmono10regular" }
  color Accent = #0F62FE

  fit headline at 10mm 10mm size 50% 40mm {
    mode: box
    min-size: 6pt
    max-size: 200pt
    font: Mono
    color: Accent
    align: Center
    "Hello, "
    "${user.name}!"
  }

  fit footer at 0 90mm size 100% 10mm {
    "plain"
  }
}
`

func describe(t *testing.T, src string, data any) (*SceneSpec, error) {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析场景失败: %v", err)
	}
	return Describe(doc, data)
}

func TestDescribePoster(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	spec, err := describe(t, posterScene, data)
	if err != nil {
		t.Fatalf("Describe error: %v", err)
	}
	if spec.Name != "Poster" || spec.Width != 200 || spec.Height != 100 {
		t.Fatalf("unexpected scene: %s %gx%g", spec.Name, spec.Width, spec.Height)
	}
	if spec.Meta.Title != "Poster" || spec.Meta.Creator != "shoehorn" || len(spec.Meta.Keywords) != 2 {
		t.Fatalf("unexpected meta: %+v", spec.Meta)
	}
	if len(spec.Widgets) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(spec.Widgets))
	}

	head := spec.Widgets[0]
	if head.Tag != FitTag || head.Name != "headline" {
		t.Fatalf("unexpected widget identity: %s/%s", head.Tag, head.Name)
	}
	if head.X != 10 || head.Y != 10 || head.Width != 100 || head.Height != 40 {
		t.Fatalf("unexpected box: %+v", head)
	}
	if head.Text != "Hello, Ada!" {
		t.Fatalf("unexpected text: %q", head.Text)
	}
	if head.Attrs["mode"] != "box" || head.Attrs["min-size"] != "6pt" || head.Attrs["max-size"] != "200pt" {
		t.Fatalf("unexpected attrs: %v", head.Attrs)
	}
	if _, ok := head.Attrs["font"]; ok {
		t.Fatalf("style keys must not leak into attrs: %v", head.Attrs)
	}
	if head.Font.Name != "Mono" || head.Font.Src != "builtin:lmmono10regular" {
		t.Fatalf("unexpected font: %+v", head.Font)
	}
	if head.Color != (Color{R: 0x0F, G: 0x62, B: 0xFE}) {
		t.Fatalf("unexpected color: %+v", head.Color)
	}
	if head.Align != "center" {
		t.Fatalf("unexpected align: %q", head.Align)
	}

	foot := spec.Widgets[1]
	if foot.Width != 200 || foot.Y != 90 || foot.Font.Name != "Body" || foot.Color != DefaultColor {
		t.Fatalf("unexpected footer: %+v", foot)
	}
}

func TestDescribeWithoutDataKeepsPlaceholders(t *testing.T) {
	spec, err := describe(t, posterScene, nil)
	if err != nil {
		t.Fatalf("Describe error: %v", err)
	}
	if spec.Widgets[0].Text != "Hello, ${user.name}!" {
		t.Fatalf("unexpected text: %q", spec.Widgets[0].Text)
	}
}

func TestDescribePresetSizeAndDefaultFont(t *testing.T) {
	spec, err := describe(t, `scene Card A5 landscape {
  fit title size 100mm 20mm { "x" }
}`, nil)
	if err != nil {
		t.Fatalf("Describe error: %v", err)
	}
	if spec.Width != 210 || spec.Height != 148 {
		t.Fatalf("unexpected size: %gx%g", spec.Width, spec.Height)
	}
	body, ok := spec.Fonts["Body"]
	if !ok || body.Src != "builtin:lmroman10regular" {
		t.Fatalf("expected default Body font, got %+v", spec.Fonts)
	}
	if spec.Widgets[0].Font != body {
		t.Fatalf("widget should use the default font")
	}
}

func TestDescribeErrors(t *testing.T) {
	cases := map[string]string{
		"missing size":    `scene S { fit a size 1mm 1mm { "x" } }`,
		"bad preset":      `scene S B9 { }`,
		"widget no size":  `scene S 10mm 10mm { fit a at 1mm 1mm { "x" } }`,
		"duplicate":       `scene S 10mm 10mm { fit a size 1mm 1mm { "x" }; fit a size 1mm 1mm { "y" } }`,
		"unknown font":    `scene S 10mm 10mm { fit a size 1mm 1mm { font: Nope; "x" } }`,
		"unknown color":   `scene S 10mm 10mm { fit a size 1mm 1mm { color: Nope; "x" } }`,
		"unknown command": `scene S 10mm 10mm { page A4 }`,
		"bad dimension":   `scene S 10mm 10mm { fit a size wide 1mm { "x" } }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := describe(t, src, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#fff":      {R: 255, G: 255, B: 255},
		"#0F62FE":   {R: 15, G: 98, B: 254},
		"#11223344": {R: 0x11, G: 0x22, B: 0x33},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("expected error for invalid hex")
	}
}
