package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/shoehorn/frame"
	canvasrenderer "github.com/ByLCY/shoehorn/renderer/canvas"
)

// watcher 在帧循环上重新加载场景，并在适配稳定后重新输出。
type watcher struct {
	opts    Options
	logger  *slog.Logger
	loop    *frame.Loop
	session *Session
}

// Watch 监听场景文件与数据文件，内容变化时重新加载；元素尺寸或文本的变化
// 经观察者触发下一帧适配，帧结束且没有待执行适配时重新输出 PDF。ctx 结束时返回。
func Watch(ctx context.Context, opts Options) error {
	w, err := newWatcher(opts)
	if err != nil {
		return err
	}
	w.flush()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer func() {
		// 关闭失败没有可补救的处理。
		_ = fw.Close()
	}()

	targets, err := w.targets()
	if err != nil {
		return err
	}
	dirs := map[string]bool{}
	for path := range targets {
		dirs[filepath.Dir(path)] = true
	}
	// 监听目录而非文件：编辑器常以重命名替换的方式保存。
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("监听目录 %s 失败: %w", dir, err)
		}
	}
	w.logger.Info("开始监听", slog.String("in", opts.Input), slog.String("out", opts.Output))

	go w.forward(ctx, fw, targets)
	return w.loop.Run(ctx)
}

func newWatcher(opts Options) (*watcher, error) {
	w := &watcher{opts: opts, logger: opts.logger()}
	w.loop = frame.New(
		frame.WithInterval(opts.Interval),
		frame.WithLogger(w.logger),
		frame.WithAfterTick(w.flush),
	)
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: opts.fontDir(), Logger: w.logger})
	s, err := NewSession(w.loop, r, r, w.logger)
	if err != nil {
		return nil, err
	}
	w.session = s
	if err := load(s, opts); err != nil {
		return nil, err
	}
	return w, nil
}

// targets 返回需要监听的文件（绝对路径）。
func (w *watcher) targets() (map[string]bool, error) {
	out := map[string]bool{}
	for _, p := range []string{w.opts.Input, w.opts.DataFile} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("解析路径 %s 失败: %w", p, err)
		}
		out[abs] = true
	}
	return out, nil
}

// forward 把文件事件转交给帧循环。
func (w *watcher) forward(ctx context.Context, fw *fsnotify.Watcher, targets map[string]bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !targets[name] {
				continue
			}
			w.logger.Debug("文件已变化", slog.String("file", name), slog.String("op", ev.Op.String()))
			if err := w.loop.Post(ctx, w.reload); err != nil {
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("文件监听出错", slog.Any("err", err))
		}
	}
}

// reload 在帧循环上执行。失败时保留上一次的场景。
func (w *watcher) reload() {
	if err := load(w.session, w.opts); err != nil {
		w.logger.Error("重新加载失败", slog.Any("err", err))
		return
	}
	w.flush()
}

// flush 在适配稳定后输出。
func (w *watcher) flush() {
	if !w.session.Dirty() || !w.session.Settled() {
		return
	}
	if err := writeOutputs(w.session, w.opts); err != nil {
		w.logger.Error("输出失败", slog.Any("err", err))
		return
	}
	w.logger.Info("已生成 PDF", slog.String("out", w.opts.Output))
}
