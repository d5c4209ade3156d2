package widget

import (
	"maps"
	"slices"

	"github.com/ByLCY/shoehorn/fit"
	"github.com/ByLCY/shoehorn/layout"
)

// 可识别的属性名。
const (
	AttrMode       = "mode"
	AttrMinSize    = "min-size"
	AttrMaxSize    = "max-size"
	AttrLineHeight = "line-height"
)

// Attributes 是元素的字符串属性表，每次适配时实时读取。
type Attributes struct {
	values map[string]string
}

// NewAttributes copies the given map.
func NewAttributes(values map[string]string) Attributes {
	a := Attributes{values: map[string]string{}}
	maps.Copy(a.values, values)
	return a
}

func (a *Attributes) Get(name string) string { return a.values[name] }

func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a *Attributes) Set(name, value string) {
	if a.values == nil {
		a.values = map[string]string{}
	}
	a.values[name] = value
}

func (a *Attributes) Remove(name string) { delete(a.values, name) }

// Names 返回排好序的属性名。
func (a *Attributes) Names() []string { return slices.Sorted(maps.Keys(a.values)) }

// FitConfig 解析 mode / min-size / max-size；缺失或无法解析的值取默认值。
// 字号换算为毫米，无单位数值与默认值按 px 处理。
func (a *Attributes) FitConfig() fit.Config {
	return fit.Config{
		Mode:    fit.ParseMode(a.Get(AttrMode)),
		MinSize: layout.FontSizeOr(a.Get(AttrMinSize), fit.DefaultMinSize),
		MaxSize: layout.FontSizeOr(a.Get(AttrMaxSize), fit.DefaultMaxSize),
	}
}
