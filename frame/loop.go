// Package frame 提供单 goroutine 的帧循环，作为 fit.FrameScheduler 的实现。
//
// 帧回调与投递的任务都在同一个 goroutine 上执行，因此回调内部无需加锁。
// 其他 goroutine（例如文件监听）通过 Post 把外部信号转交给循环。
package frame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ByLCY/shoehorn/fit"
)

// DefaultInterval 约等于 60Hz 的帧间隔。
const DefaultInterval = 16 * time.Millisecond

const taskBuffer = 64

// Loop 是帧循环。零值不可用，请使用 New。
type Loop struct {
	interval  time.Duration
	logger    *slog.Logger
	afterTick func()

	mu    sync.Mutex
	seq   fit.Token
	order []fit.Token
	ticks map[fit.Token]func()

	tasks chan func()
}

var _ fit.FrameScheduler = (*Loop)(nil)

// Option configures a Loop.
type Option func(*Loop)

// WithInterval 设置帧间隔，<=0 时保持默认值。
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithAfterTick 注册帧结束钩子：本帧至少执行过一个回调时调用。
func WithAfterTick(fn func()) Option {
	return func(l *Loop) { l.afterTick = fn }
}

// New 创建帧循环。
func New(opts ...Option) *Loop {
	l := &Loop{
		interval: DefaultInterval,
		logger:   slog.Default(),
		ticks:    map[fit.Token]func(){},
		tasks:    make(chan func(), taskBuffer),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the configured frame interval.
func (l *Loop) Interval() time.Duration { return l.interval }

// RequestTick 登记下一帧执行的回调。
func (l *Loop) RequestTick(fn func()) fit.Token {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.ticks[l.seq] = fn
	l.order = append(l.order, l.seq)
	return l.seq
}

// CancelTick 取消尚未执行的回调；已执行或未知的 token 忽略。
func (l *Loop) CancelTick(token fit.Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.ticks, token)
}

// Pending 返回尚未执行的回调数量。
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ticks)
}

// Tick 同步执行一帧：运行本帧开始前登记的回调（按登记顺序），
// 帧内新登记的回调留到下一帧。返回执行的回调数。
func (l *Loop) Tick() int {
	l.mu.Lock()
	batch := l.order
	l.order = nil
	l.mu.Unlock()

	ran := 0
	for _, token := range batch {
		l.mu.Lock()
		fn, ok := l.ticks[token]
		delete(l.ticks, token)
		l.mu.Unlock()
		if !ok {
			continue
		}
		fn()
		ran++
	}
	if ran > 0 && l.afterTick != nil {
		l.afterTick()
	}
	return ran
}

// Post 把任务交给循环 goroutine 执行。缓冲已满时阻塞，直到 ctx 结束。
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case l.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain 在当前 goroutine 上执行所有已投递的任务，返回执行数量。
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run 驱动帧循环直到 ctx 结束。Run 所在的 goroutine 即为循环 goroutine。
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	l.logger.Debug("frame loop started", slog.Duration("interval", l.interval))
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("frame loop stopped")
			return nil
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.Tick()
		}
	}
}
