package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ByLCY/shoehorn/dsl"
	"github.com/ByLCY/shoehorn/frame"
	"github.com/ByLCY/shoehorn/layout"
	canvasrenderer "github.com/ByLCY/shoehorn/renderer/canvas"
)

// Options 是 render 与 watch 共用的参数。
type Options struct {
	Input    string // 场景文件
	Output   string // PDF 输出路径
	Debug    string // 调试 JSON 输出路径，可为空
	Data     string // 内联 JSON 数据
	DataFile string // JSON 数据文件，优先于 Data；watch 模式下会被监听
	FontDir  string // 相对字体路径的解析目录，为空时取场景文件所在目录
	Interval time.Duration
	Logger   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) fontDir() string {
	if o.FontDir != "" {
		return o.FontDir
	}
	return filepath.Dir(o.Input)
}

// LoadData 读取绑定数据：DataFile 优先，其次是内联 JSON；都为空时返回 nil。
func LoadData(inline, path string) (any, error) {
	raw := []byte(inline)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
		}
		raw = b
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

// LoadScene 解析场景文件并按 data 生成场景描述。
func LoadScene(path string, data any) (*layout.SceneSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开场景文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.ParseFile(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}
	spec, err := layout.Describe(doc, data)
	if err != nil {
		return nil, fmt.Errorf("场景描述无效: %w", err)
	}
	return spec, nil
}

// load 读取数据与场景并交给会话。
func load(s *Session, opts Options) error {
	data, err := LoadData(opts.Data, opts.DataFile)
	if err != nil {
		return err
	}
	spec, err := LoadScene(opts.Input, data)
	if err != nil {
		return err
	}
	return s.Load(spec)
}

// Render 一次性地解析、适配并输出 PDF。元素挂载时同步适配，因此无需驱动帧循环。
func Render(opts Options) error {
	logger := opts.logger()
	loop := frame.New(frame.WithInterval(opts.Interval), frame.WithLogger(logger))
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: opts.fontDir(), Logger: logger})
	s, err := NewSession(loop, r, r, logger)
	if err != nil {
		return err
	}
	if err := load(s, opts); err != nil {
		return err
	}
	return writeOutputs(s, opts)
}

// writeOutputs 输出调试 JSON（若需要）与 PDF。
func writeOutputs(s *Session, opts Options) error {
	if opts.Debug != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(s.Scene(), opts.Debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := s.Render()
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(opts.Output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}
