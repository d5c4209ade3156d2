package widget

import (
	"log/slog"

	"github.com/ByLCY/shoehorn/fit"
	"github.com/ByLCY/shoehorn/layout"
)

// TagName 是自适应文本元素的标签。
const TagName = layout.FitTag

// Env 是元素构造时需要的外部依赖。
type Env struct {
	Frames     fit.FrameScheduler
	Typesetter layout.Typesetter
	Logger     *slog.Logger
}

// Element 是自适应文本元素：持有容器、文本与属性，并把它们交给 fit.Engine。
// 字号只由 Engine 写入。
type Element struct {
	name  string
	attrs Attributes
	box   *Box
	text  *Text

	font  layout.FontResource
	color layout.Color
	align string

	typesetter layout.Typesetter
	logger     *slog.Logger

	fontSize float64
	wrap     bool

	doc    *Document
	engine *fit.Engine
}

var _ fit.Target = (*Element)(nil)

// NewElement 是 TagName 的默认工厂。
func NewElement(env Env, spec layout.WidgetSpec) (*Element, error) {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	color := spec.Color
	if color == (layout.Color{}) {
		color = layout.DefaultColor
	}
	el := &Element{
		name:       spec.Name,
		attrs:      NewAttributes(spec.Attrs),
		box:        NewBox(spec.Width, spec.Height),
		text:       NewText(spec.Text),
		font:       spec.Font,
		color:      color,
		align:      spec.Align,
		typesetter: env.Typesetter,
		logger:     logger.With(slog.String("element", spec.Name)),
	}
	el.engine = fit.New(el, env.Frames, fit.WithLogger(el.logger))
	return el, nil
}

func (el *Element) Name() string { return el.name }
func (el *Element) Box() *Box    { return el.box }
func (el *Element) Text() *Text  { return el.text }

// Attribute returns the raw attribute value.
func (el *Element) Attribute(name string) string { return el.attrs.Get(name) }

// SetAttribute 修改属性；新值在下一次适配时生效，本身不触发适配。
func (el *Element) SetAttribute(name, value string) { el.attrs.Set(name, value) }

// RemoveAttribute deletes an attribute, restoring its default.
func (el *Element) RemoveAttribute(name string) { el.attrs.Remove(name) }

// Attributes 返回属性名（排好序）。
func (el *Element) Attributes() []string { return el.attrs.Names() }

// Style 修改字体、颜色与对齐方式，这些都不影响下一次适配以外的状态。
func (el *Element) Style(font layout.FontResource, color layout.Color, align string) {
	el.font, el.color, el.align = font, color, align
}

// Fit 请求适配，sync 为 true 时立即执行。
func (el *Element) Fit(sync bool) { el.engine.Fit(sync) }

// Freeze 暂停适配。
func (el *Element) Freeze() { el.engine.Freeze() }

// Unfreeze 恢复适配并在下一帧执行一次。
func (el *Element) Unfreeze() { el.engine.Unfreeze() }

// Frozen reports whether fitting is suspended.
func (el *Element) Frozen() bool { return el.engine.Frozen() }

// OnFit 注册 fit 事件监听，返回注销函数。
func (el *Element) OnFit(fn func(fit.Result)) (remove func()) { return el.engine.OnFit(fn) }

// FontSize 返回当前应用的字号（mm），0 表示从未适配。
func (el *Element) FontSize() float64 { return el.engine.FontSize() }

// Lines 返回按当前字号与折行方式排好的行。
func (el *Element) Lines() []layout.TextLine { return el.layoutLines() }

// Snapshot 按当前字号排版，生成渲染用的文本块。x、y 为容器左上角。
func (el *Element) Snapshot(x, y float64) layout.TextBox {
	width, height := el.box.Size()
	cfg := el.attrs.FitConfig()
	return layout.TextBox{
		Name:       el.name,
		Content:    el.text.Content(),
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		Font:       el.font.Name,
		FontSize:   el.fontSize,
		LineHeight: el.lineHeight(),
		Color:      el.color,
		Lines:      el.Lines(),
		Align:      el.align,
		Mode:       cfg.Mode.String(),
	}
}

// 以下方法实现 fit.Target，只由 Engine 调用。

func (el *Element) Config() fit.Config { return el.attrs.FitConfig() }

func (el *Element) Available() (float64, float64) { return el.box.Size() }

func (el *Element) SetWrap(wrap bool) { el.wrap = wrap }

func (el *Element) SetFontSize(size float64) { el.fontSize = size }

func (el *Element) Live() bool { return el.doc != nil }

// Measure 以当前字号与折行方式排版，返回文本外框。排版失败时按空内容处理。
func (el *Element) Measure() fit.Measurement {
	w, h := layout.Extent(el.layoutLines())
	return fit.Measurement{Width: w, Height: h}
}

func (el *Element) lineHeight() float64 {
	return layout.ParseLineHeight(el.attrs.Get(AttrLineHeight)).Resolve(el.fontSize)
}

func (el *Element) layoutLines() []layout.TextLine {
	if el.typesetter == nil || el.fontSize <= 0 {
		return nil
	}
	width, wrap := 0.0, layout.WrapNone
	if el.wrap {
		width, _ = el.box.Size()
		wrap = layout.WrapNormal
	}
	lines, err := el.typesetter.LayoutLines(el.text.Content(), width, el.font, el.fontSize, el.lineHeight(), wrap)
	if err != nil {
		el.logger.Warn("排版失败", slog.Float64("fontSize", el.fontSize), slog.Any("err", err))
		return nil
	}
	return lines
}

func (el *Element) connected(doc *Document) {
	el.doc = doc
	el.engine.Attach(el.box.Observer(), el.text.Observer())
}

func (el *Element) disconnected() {
	el.engine.Detach()
	el.doc = nil
}
