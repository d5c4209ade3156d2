// Package config 读取进程级设置（帧间隔、日志级别、字体目录）。
// 元素的 mode / min-size / max-size 属于场景文件，不在这里。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config 的默认值由 struct tag 提供。
type Config struct {
	// FrameInterval 是 watch 模式下的帧间隔。ENV: SHOEHORN_FRAME_INTERVAL
	FrameInterval time.Duration `env:"SHOEHORN_FRAME_INTERVAL,default=16ms"`
	// LogLevel: debug / info / warn / error。ENV: SHOEHORN_LOG_LEVEL
	LogLevel string `env:"SHOEHORN_LOG_LEVEL,default=info"`
	// FontDir 是相对字体路径的解析目录；为空时使用场景文件所在目录。ENV: SHOEHORN_FONT_DIR
	FontDir string `env:"SHOEHORN_FONT_DIR"`
}

// Load 从环境变量解码配置。
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("读取环境配置失败: %w", err)
	}
	if cfg.FrameInterval <= 0 {
		return Config{}, fmt.Errorf("SHOEHORN_FRAME_INTERVAL 必须为正数，当前为 %s", cfg.FrameInterval)
	}
	return cfg, nil
}

// Level 将 LogLevel 转换为 slog.Level，无法识别时返回 Info。
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
