package fit

import (
	"log/slog"
	"slices"
)

// Token 标识一次已登记的帧回调，零值表示没有挂起的回调。
type Token uint64

// FrameScheduler 把工作推迟到下一帧执行。
type FrameScheduler interface {
	RequestTick(fn func()) Token
	CancelTick(token Token)
}

// Observer 报告尺寸或内容变化，回调不携带负载。
type Observer interface {
	Observe(callback func())
	Disconnect()
}

// Target 是被适配的渲染对象：提供实时配置、容器尺寸，并接受字号写入与测量。
// Measure 必须同步反映最近一次 SetFontSize。
type Target interface {
	Config() Config
	Available() (width, height float64)
	SetWrap(wrap bool)
	SetFontSize(size float64)
	Measure() Measurement
	Live() bool
}

// Result 在每次完成的适配后发出。
type Result struct {
	NewSize float64 `json:"newValue"`
	OldSize float64 `json:"oldValue"`
	Mode    Mode    `json:"mode"`
}

// State 是 Engine 独占的可变状态。
type State struct {
	Active   bool    `json:"active"`
	FontSize float64 `json:"fontSize"` // 0 表示从未适配
	Pending  Token   `json:"pending"`
}

type listener struct {
	id int
	fn func(Result)
}

// Engine 调度适配：维护 Active/Frozen 状态，把多次延迟请求合并到同一帧，
// 执行 测量→求解→应用→通知。所有方法都必须在同一个 goroutine（帧循环）上调用。
type Engine struct {
	target Target
	frames FrameScheduler
	logger *slog.Logger

	state     State
	observers []Observer
	listeners []listener
	nextID    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New 创建处于 Active 状态、尚未适配过的 Engine。
func New(target Target, frames FrameScheduler, opts ...Option) *Engine {
	e := &Engine{
		target: target,
		frames: frames,
		logger: slog.Default(),
		state:  State{Active: true},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attach 开始监听尺寸/内容变化，并立即同步适配一次，避免首帧以默认字号闪现。
func (e *Engine) Attach(observers ...Observer) {
	for _, obs := range observers {
		if obs == nil {
			continue
		}
		obs.Observe(e.changed)
		e.observers = append(e.observers, obs)
	}
	e.Fit(true)
}

// Detach 停止监听，并作废挂起的帧回调。
func (e *Engine) Detach() {
	for _, obs := range e.observers {
		obs.Disconnect()
	}
	e.observers = nil
	e.cancelPending()
}

func (e *Engine) changed() { e.Fit(false) }

// Fit 请求一次适配。冻结时不做任何事。
// sync 为 true 时取消挂起的帧回调并立即执行，返回前已发出通知；
// 否则替换挂起的帧回调，下一帧只执行一次。
func (e *Engine) Fit(sync bool) {
	if !e.state.Active {
		return
	}
	e.cancelPending()
	if sync {
		e.pass()
		return
	}
	var token Token
	token = e.frames.RequestTick(func() { e.fire(token) })
	e.state.Pending = token
}

// Freeze 进入 Frozen：之后的请求都是空操作，挂起的帧回调不会再执行。
func (e *Engine) Freeze() {
	e.state.Active = false
	e.cancelPending()
}

// Unfreeze 回到 Active 并请求一次延迟适配。
func (e *Engine) Unfreeze() {
	e.state.Active = true
	e.Fit(false)
}

// Frozen reports whether fit requests are currently suppressed.
func (e *Engine) Frozen() bool { return !e.state.Active }

// FontSize 返回最近一次应用的字号，0 表示从未适配。
func (e *Engine) FontSize() float64 { return e.state.FontSize }

// State returns a copy of the scheduler state.
func (e *Engine) State() State { return e.state }

// OnFit 注册通知回调，按注册顺序同步调用；返回值用于注销。
func (e *Engine) OnFit(fn func(Result)) (remove func()) {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return func() {
		e.listeners = slices.DeleteFunc(e.listeners, func(l listener) bool { return l.id == id })
	}
}

func (e *Engine) cancelPending() {
	if e.state.Pending == 0 {
		return
	}
	e.frames.CancelTick(e.state.Pending)
	e.state.Pending = 0
}

// fire 是帧回调入口；被替换或作废的 token 直接忽略。
func (e *Engine) fire(token Token) {
	if token == 0 || e.state.Pending != token {
		e.logger.Debug("fit: stale frame ignored", slog.Uint64("token", uint64(token)))
		return
	}
	e.state.Pending = 0
	if !e.state.Active {
		return
	}
	e.pass()
}

func (e *Engine) pass() {
	if !e.target.Live() {
		e.logger.Debug("fit: target detached, pass skipped")
		return
	}
	cfg := e.target.Config()
	e.target.SetWrap(cfg.Mode == ModeBox)
	width, height := e.target.Available()

	old := e.state.FontSize
	size := Evaluate(cfg.Mode, cfg.MinSize, cfg.MaxSize, old, e.probe, width, height)
	e.target.SetFontSize(size)
	e.state.FontSize = size

	e.logger.Debug("fit: pass complete",
		slog.String("mode", cfg.Mode.String()),
		slog.Float64("old", old),
		slog.Float64("new", size),
	)
	e.emit(Result{NewSize: size, OldSize: old, Mode: cfg.Mode})
}

func (e *Engine) probe(size float64) Measurement {
	e.target.SetFontSize(size)
	return e.target.Measure()
}

func (e *Engine) emit(res Result) {
	for _, l := range slices.Clone(e.listeners) {
		l.fn(res)
	}
}
