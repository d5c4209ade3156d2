// Package app 把场景文件、自适应元素与渲染器串起来：
// 场景描述 → 元素（挂到 Document 上即同步适配）→ 场景快照 → PDF。
package app

import (
	"fmt"
	"log/slog"

	"github.com/ByLCY/shoehorn/fit"
	"github.com/ByLCY/shoehorn/frame"
	"github.com/ByLCY/shoehorn/layout"
	"github.com/ByLCY/shoehorn/renderer"
	"github.com/ByLCY/shoehorn/widget"
)

// Session 持有一个场景的全部元素。所有方法都应在帧循环所在的 goroutine 上调用。
type Session struct {
	logger   *slog.Logger
	loop     *frame.Loop
	doc      *widget.Document
	registry *widget.Registry
	renderer renderer.Renderer

	spec      *layout.SceneSpec
	positions map[string][2]float64
	dirty     bool
}

// NewSession 创建会话并注册 shoehorn-text 元素。ts 同时作为所有元素的测量后端。
func NewSession(loop *frame.Loop, ts layout.Typesetter, r renderer.Renderer, logger *slog.Logger) (*Session, error) {
	if loop == nil {
		return nil, fmt.Errorf("帧循环不能为空")
	}
	if logger == nil {
		logger = slog.Default()
	}
	registry := widget.NewRegistry(widget.Env{Frames: loop, Typesetter: ts, Logger: logger})
	if err := registry.Define(widget.TagName, widget.NewElement); err != nil {
		return nil, err
	}
	return &Session{
		logger:    logger,
		loop:      loop,
		doc:       widget.NewDocument(),
		registry:  registry,
		renderer:  r,
		positions: map[string][2]float64{},
	}, nil
}

// Load 让文档与场景描述保持一致：新元素创建并挂载（同步适配），已有元素就地更新
// （尺寸或文本变化经由观察者在下一帧适配），描述中不存在的元素被移除。
func (s *Session) Load(spec *layout.SceneSpec) error {
	if spec == nil {
		return fmt.Errorf("场景描述为空")
	}
	for _, w := range spec.Widgets {
		if !s.registry.Defined(w.Tag) {
			return fmt.Errorf("元素 %s: %w: %s", w.Name, widget.ErrUnknownTag, w.Tag)
		}
	}

	keep := make(map[string]bool, len(spec.Widgets))
	positions := make(map[string][2]float64, len(spec.Widgets))
	for _, w := range spec.Widgets {
		keep[w.Name] = true
		positions[w.Name] = [2]float64{w.X, w.Y}
		if el := s.doc.Lookup(w.Name); el != nil {
			s.update(el, w)
			continue
		}
		el, err := s.registry.Create(w)
		if err != nil {
			return fmt.Errorf("创建元素 %s 失败: %w", w.Name, err)
		}
		s.validate(el)
		el.OnFit(func(r fit.Result) {
			s.dirty = true
			s.logger.Debug("元素已适配",
				slog.String("element", el.Name()),
				slog.String("mode", r.Mode.String()),
				slog.Float64("old", r.OldSize),
				slog.Float64("new", r.NewSize))
		})
		if err := s.doc.Append(el); err != nil {
			return fmt.Errorf("挂载元素 %s 失败: %w", w.Name, err)
		}
	}
	for _, el := range s.doc.Elements() {
		if !keep[el.Name()] {
			s.doc.Remove(el)
			s.logger.Debug("元素已移除", slog.String("element", el.Name()))
		}
	}

	s.spec = spec
	s.positions = positions
	s.dirty = true
	return nil
}

func (s *Session) update(el *widget.Element, w layout.WidgetSpec) {
	for _, name := range el.Attributes() {
		if _, ok := w.Attrs[name]; !ok {
			el.RemoveAttribute(name)
		}
	}
	for name, value := range w.Attrs {
		el.SetAttribute(name, value)
	}
	el.Style(w.Font, w.Color, w.Align)
	s.validate(el)

	el.Box().Resize(w.Width, w.Height)
	el.Text().SetContent(w.Text)
	// 属性与样式不被观察，显式请求一次；与上面的观察者请求合并为同一帧。
	el.Fit(false)
}

func (s *Session) validate(el *widget.Element) {
	if err := el.Config().Validate(); err != nil {
		s.logger.Warn("适配配置无效", slog.String("element", el.Name()), slog.Any("err", err))
	}
}

// Element 按名称查找元素。
func (s *Session) Element(name string) *widget.Element { return s.doc.Lookup(name) }

// Elements returns the attached elements in scene order.
func (s *Session) Elements() []*widget.Element { return s.doc.Elements() }

// Dirty 报告自上次渲染以来是否发生过适配或重新加载。
func (s *Session) Dirty() bool { return s.dirty }

// Settled 报告是否没有待执行的适配。
func (s *Session) Settled() bool { return s.loop.Pending() == 0 }

// Scene 按各元素当前字号生成场景快照。
func (s *Session) Scene() *layout.Scene {
	if s.spec == nil {
		return nil
	}
	scene := &layout.Scene{
		Width:  s.spec.Width,
		Height: s.spec.Height,
		Meta:   s.spec.Meta,
		Fonts:  s.spec.Fonts,
	}
	for _, el := range s.doc.Elements() {
		pos := s.positions[el.Name()]
		scene.Texts = append(scene.Texts, el.Snapshot(pos[0], pos[1]))
	}
	return scene
}

// Render 渲染当前快照并清除 dirty 标记。
func (s *Session) Render() ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	scene := s.Scene()
	if scene == nil {
		return nil, fmt.Errorf("尚未加载场景")
	}
	out, err := s.renderer.Render(scene)
	if err != nil {
		return nil, err
	}
	s.dirty = false
	return out, nil
}
