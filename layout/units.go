package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 本文件定义长度与行高的解析。布局与适配统一使用毫米，字体系统在边界换算为 pt。
// 无单位的几何长度按毫米处理；无单位的字号按 CSS px 处理，见 FontSizeOr。

// Unit 记录长度在场景文件中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按毫米处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
	UnitPX
)

// pt、px 与 mm 的换算常量。px 取 CSS 参考像素：1in = 96px。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
	toMM   float64
}{
	{"mm", UnitMM, 1},
	{"cm", UnitCM, 10},
	{"in", UnitIN, 25.4},
	{"pt", UnitPT, PtToMm},
	{"px", UnitPX, PxToMm},
}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

func (u Unit) scale() float64 {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.toMM
		}
	}
	return 1
}

// Length 保留数值及其原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) ToMM() float64 { return l.Value * l.Unit.scale() }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength 解析 "12pt"、"4.5mm"、"16px"、"16" 这类长度。非有限数值视为错误。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			v = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}, fmt.Errorf("长度 %q 不是有限数值", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// FontSizeOr 以毫米返回字号属性 value。无单位数值按 px 处理；为空或无法解析时
// 返回 fallbackPx 个 px。
func FontSizeOr(value string, fallbackPx float64) float64 {
	l, err := ParseLength(value)
	if err != nil {
		return fallbackPx * PxToMm
	}
	if l.Unit == UnitNone {
		return l.Value * PxToMm
	}
	return l.ToMM()
}

// ParseDimension 解析长度或百分比，百分比相对 reference（mm）。
func ParseDimension(value string, reference float64) (float64, error) {
	v := strings.TrimSpace(value)
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, fmt.Errorf("无法解析百分比 %q: %w", value, err)
		}
		return reference * f / 100, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}

// LineHeightKind 区分倍数行高与绝对行高。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// DefaultLineHeight 是未指定 line-height 时的倍数。
const DefaultLineHeight = 1.2

// LineHeightSpec 保留作者意图：倍数（1.2 / 1.2x）或绝对长度（18pt）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析 line-height 属性，无法解析时返回默认倍数。
func ParseLineHeight(value string) LineHeightSpec {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil && f > 0 && !math.IsInf(f, 0) {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}
	}
	if l, err := ParseLength(v); err == nil && l.Unit != UnitNone && l.Value > 0 {
		return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}
	}
	return LineHeightSpec{Kind: LineHeightFactor, Factor: DefaultLineHeight}
}

// Resolve 以毫米返回行高。倍数行高随字号缩放，绝对行高不随字号变化。
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.ToMM()
	default:
		factor := s.Factor
		if factor <= 0 {
			factor = DefaultLineHeight
		}
		return fontSize * factor
	}
}
