package canvasrenderer

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/shoehorn/fonts"
	"github.com/ByLCY/shoehorn/layout"
	"github.com/ByLCY/shoehorn/renderer"
)

// Renderer 基于 github.com/tdewolff/canvas：既是适配时的测量后端，也负责输出 PDF。
type Renderer struct {
	baseDir   string
	fontBlobs map[string][]byte // 注入的字体，按 builtin:<name> 引用，优先于内置字体
	logger    *slog.Logger

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource
	Logger  *slog.Logger // 为空时使用 slog.Default()
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		logger:       logger,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		data := res.Bytes
		if len(data) == 0 && res.Path != "" {
			var err error
			if data, err = os.ReadFile(res.Path); err != nil {
				// 不注册该字体，引用它的场景在使用处回退到内置字体。
				logger.Warn("读取注入字体失败",
					slog.String("font", name),
					slog.String("path", res.Path),
					slog.Any("err", err))
			}
		}
		if len(data) > 0 {
			r.fontBlobs[name] = data
		}
	}
	return r
}

// LayoutLines 实现 layout.Typesetter。
// 约定：fontSize/lineHeight/width 均为毫米；创建字体面时换算为 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize*layout.MmToPt, layout.DefaultColor)
	if err != nil {
		return nil, err
	}
	lines := breakLines(content, width, face, wrap)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{}}
	}
	for i := range lines {
		lines[i].Height = textHeight
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// lineBreaker 累积当前行并在超宽时换行。宽度单位为 mm（canvas 的 TextWidth 已是 mm）。
type lineBreaker struct {
	face    *canvas.FontFace
	limit   float64
	lines   []layout.TextLine
	current strings.Builder
	width   float64
	wrapped bool // 上一行是因宽度而折断的
}

func (b *lineBreaker) flush(force bool) {
	if b.current.Len() == 0 {
		if force {
			b.lines = append(b.lines, layout.TextLine{})
		}
		return
	}
	b.lines = append(b.lines, layout.TextLine{Content: b.current.String(), Width: b.width})
	b.current.Reset()
	b.width = 0
	b.wrapped = !force
}

func (b *lineBreaker) push(s string, w float64) {
	b.current.WriteString(s)
	b.width += w
}

// place 放入一个片段，放不下时先换行。
func (b *lineBreaker) place(s string) {
	w := b.face.TextWidth(s)
	if b.width > 0 && b.width+w > b.limit {
		b.flush(false)
		if isBlank(s) {
			return
		}
	}
	b.push(s, w)
	if b.width > b.limit {
		b.flush(false)
	}
}

// breakLines 按折行策略分行：nowrap 只认显式换行；其余策略在空白处折行，单词超宽时在词内拆分。
func breakLines(content string, width float64, face *canvas.FontFace, wrap string) []layout.TextLine {
	if wrap == layout.WrapNone || width <= 0 {
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	}

	b := &lineBreaker{face: face, limit: width}
	for _, token := range tokenize(content) {
		if token == "\n" {
			b.flush(true)
			b.wrapped = false
			continue
		}
		if b.current.Len() == 0 && b.wrapped && isBlank(token) {
			// 折行后行首的空白不占宽度。
			continue
		}
		if face.TextWidth(token) <= width {
			b.place(token)
			continue
		}
		for _, chunk := range splitWord(token, width, face) {
			b.place(chunk)
		}
	}
	b.flush(true)
	return b.lines
}

// tokenize 把文本切成交替的空白/非空白片段，显式换行单独成为 "\n"。
func tokenize(s string) []string {
	var tokens []string
	start := -1
	var inSpace bool
	s = strings.ReplaceAll(s, "\r", "")
	for i, r := range s {
		if r == '\n' {
			if start >= 0 {
				tokens = append(tokens, s[start:i])
			}
			tokens = append(tokens, "\n")
			start = -1
			continue
		}
		space := unicode.IsSpace(r)
		if start < 0 {
			start, inSpace = i, space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, s[start:i])
			start, inSpace = i, space
		}
	}
	if start >= 0 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// splitWord 把超宽单词按字符拆成不超过 limit 的片段（单个字符超宽时独占一段）。
func splitWord(word string, limit float64, face *canvas.FontFace) []string {
	var parts []string
	runes := []rune(word)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i-start > 1 && face.TextWidth(string(runes[start:i])) > limit {
			parts = append(parts, string(runes[start:i-1]))
			start = i - 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	name := font.Name
	if name == "" {
		name = "Body"
	}
	family := canvas.NewFontFamily(name)
	data, err := r.loadFontBytes(font)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
		}
		r.logger.Warn("加载字体失败，改用内置字体",
			slog.String("font", name),
			slog.String("src", font.Src),
			slog.Any("err", err))
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	if src == "" {
		src = "builtin:" + fonts.Default
	}
	if fonts.IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "builtin:"), "built-in:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许使用相对字体路径：%s（请改用 builtin:）", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// fallback 只在调用方已持有 fontMu 时使用。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("shoehorn-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
