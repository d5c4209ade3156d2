package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/shoehorn/layout"
)

// Render renders the fitted scene into a single-page PDF.
func (r *Renderer) Render(scene *layout.Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("场景尺寸无效：%.2f x %.2f", scene.Width, scene.Height)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, scene.Width, scene.Height, nil)
	r.applyMeta(writer, scene.Meta)

	c := canvas.New(scene.Width, scene.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与场景保持左上角为原点
	for _, tb := range scene.Texts {
		if err := r.drawTextBox(ctx, tb, resolveFontResource(tb.Font, scene.Fonts)); err != nil {
			return nil, fmt.Errorf("绘制文本 %s 失败: %w", tb.Name, err)
		}
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawTextBox 按 TextBox 中已排好的行绘制。坐标、字号、行高均为 mm。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	if tb.FontSize <= 0 {
		return nil
	}
	face, err := r.fontFace(fontRes, tb.FontSize*layout.MmToPt, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Height: tb.LineHeight}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	ascent := face.Metrics().Ascent
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		height := line.Height
		if height <= 0 {
			height = tb.LineHeight
		}
		ctx.DrawText(anchorX, cursorY+ascent, canvas.NewTextLine(face, line.Content, textAlign))
		cursorY += height
	}
	return nil
}

// resolveFontResource 依次尝试指定名称、Body 与任意已声明字体；都没有时返回空资源（使用内置默认字体）。
func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts["Body"]; ok {
		return font
	}
	for _, font := range fonts {
		return font
	}
	return layout.FontResource{}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
