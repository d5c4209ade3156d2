package fit

import (
	"fmt"
	"math"
	"strings"
)

// Mode 表示字号适配策略。
type Mode int

const (
	ModeWidth  Mode = iota // 单行，渲染宽度撑满容器宽度（默认）
	ModeHeight             // 单行，字号直接取容器高度
	ModeBox                // 允许换行，取高度不溢出容器的最大整数字号
)

// 属性 min-size / max-size 的缺省值，单位为 CSS px；元素读取属性时换算为毫米。
const (
	DefaultMinSize = 16.0
	DefaultMaxSize = 512.0
)

// ParseMode 将属性值解析为 Mode；无法识别的值一律按 width 处理。
func ParseMode(value string) Mode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "height":
		return ModeHeight
	case "box":
		return ModeBox
	default:
		return ModeWidth
	}
}

func (m Mode) String() string {
	switch m {
	case ModeHeight:
		return "height"
	case ModeBox:
		return "box"
	default:
		return "width"
	}
}

// MarshalText 让 Mode 在 JSON 中以属性值的形式出现。
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	*m = ParseMode(string(text))
	return nil
}

// Config 是一次适配所读取的配置快照。每次适配都会重新读取，两次之间可以变化。
type Config struct {
	Mode    Mode    `json:"mode"`
	MinSize float64 `json:"minSize"`
	MaxSize float64 `json:"maxSize"`
}

// DefaultConfig 返回 width 模式与默认字号区间。
func DefaultConfig() Config {
	return Config{Mode: ModeWidth, MinSize: DefaultMinSize, MaxSize: DefaultMaxSize}
}

// Validate 检查字号区间。Evaluate 不会调用它：区间倒置属于调用方的配置错误。
func (c Config) Validate() error {
	if math.IsNaN(c.MinSize) || math.IsNaN(c.MaxSize) || math.IsInf(c.MinSize, 0) || math.IsInf(c.MaxSize, 0) {
		return fmt.Errorf("字号区间必须为有限数值: min=%g max=%g", c.MinSize, c.MaxSize)
	}
	if c.MinSize <= 0 {
		return fmt.Errorf("min-size 必须大于 0，当前为 %g", c.MinSize)
	}
	if c.MaxSize < c.MinSize {
		return fmt.Errorf("max-size (%g) 不能小于 min-size (%g)", c.MaxSize, c.MinSize)
	}
	return nil
}

// Clamp 将 v 限制在 [MinSize, MaxSize] 内。
func (c Config) Clamp(v float64) float64 { return clamp(v, c.MinSize, c.MaxSize) }

// clamp 计算 max(lo, min(v, hi))。NaN 视为无解，落到 lo。
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
