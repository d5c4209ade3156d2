// Package binding 把 JSON 数据插入到文本模板的 ${path} 占位符中。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将 text 中的 ${path.to.value} 替换为 data 中的值。
// 路径支持 a.b[0].c 形式；data 为空或路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := Lookup(data, path); ok {
			return format(val)
		}
		return match
	})
}

// Placeholders 返回模板中出现的路径，按出现顺序，不去重。
func Placeholders(text string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// Lookup 按路径在 JSON 解码后的数据（map[string]any / []any）中取值。
func Lookup(data any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	steps, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	current := data
	for _, st := range steps {
		switch node := current.(type) {
		case map[string]any:
			if st.index >= 0 {
				return nil, false
			}
			current, ok = node[st.key]
		case []any:
			if st.index < 0 || st.index >= len(node) {
				return nil, false
			}
			current, ok = node[st.index], true
		default:
			return nil, false
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// step 是路径中的一段：键或数组下标（index >= 0）。
type step struct {
	key   string
	index int
}

// splitPath 把 "items[1].name" 拆成 items、[1]、name 三步。
func splitPath(path string) ([]step, bool) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			steps = append(steps, step{key: name, index: -1})
		}
		if rest == "" {
			if name == "" {
				return nil, false
			}
			continue
		}
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: n})
		}
	}
	return steps, true
}

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
