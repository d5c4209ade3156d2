package widget

import (
	"slices"

	"github.com/ByLCY/shoehorn/fit"
)

// signal 是一个无负载的通知源，订阅者按订阅顺序同步回调。
type signal struct {
	subs []*subscription
}

// subscription 实现 fit.Observer。
type subscription struct {
	sig      *signal
	callback func()
}

var _ fit.Observer = (*subscription)(nil)

func (s *signal) observer() *subscription { return &subscription{sig: s} }

func (s *signal) notify() {
	for _, sub := range slices.Clone(s.subs) {
		if cb := sub.callback; cb != nil {
			cb()
		}
	}
}

func (sub *subscription) Observe(callback func()) {
	if sub.callback == nil {
		sub.sig.subs = append(sub.sig.subs, sub)
	}
	sub.callback = callback
}

func (sub *subscription) Disconnect() {
	sub.callback = nil
	sub.sig.subs = slices.DeleteFunc(sub.sig.subs, func(s *subscription) bool { return s == sub })
}

// Box 是被测量的容器（mm）。尺寸真正变化时才通知观察者。
type Box struct {
	width, height float64
	resized       signal
}

// NewBox creates a container of the given size.
func NewBox(width, height float64) *Box { return &Box{width: width, height: height} }

// Size returns the current container size.
func (b *Box) Size() (width, height float64) { return b.width, b.height }

// Resize 修改容器尺寸，返回是否发生变化。
func (b *Box) Resize(width, height float64) bool {
	if b.width == width && b.height == height {
		return false
	}
	b.width, b.height = width, height
	b.resized.notify()
	return true
}

// Observer 返回一个新的尺寸观察者。
func (b *Box) Observer() fit.Observer { return b.resized.observer() }

// Text 是文本负载。内容真正变化时才通知观察者。
type Text struct {
	content string
	mutated signal
}

// NewText creates a text payload.
func NewText(content string) *Text { return &Text{content: content} }

// Content returns the current text.
func (t *Text) Content() string { return t.content }

// SetContent 替换文本，返回是否发生变化。
func (t *Text) SetContent(content string) bool {
	if t.content == content {
		return false
	}
	t.content = content
	t.mutated.notify()
	return true
}

// Observer 返回一个新的内容观察者。
func (t *Text) Observer() fit.Observer { return t.mutated.observer() }
