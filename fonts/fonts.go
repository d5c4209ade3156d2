// Package fonts 提供内置字体（Latin Modern），场景文件以 builtin:<name> 引用。
package fonts

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Default 是未声明字体时使用的内置字体。
const Default = "lmroman10regular"

var builtin = map[string][]byte{
	"lmroman10regular": lmroman10regular.TTF,
	"lmroman10bold":    lmroman10bold.TTF,
	"lmroman10italic":  lmroman10italic.TTF,
	"lmsans10regular":  lmsans10regular.TTF,
	"lmsans10bold":     lmsans10bold.TTF,
	"lmmono10regular":  lmmono10regular.TTF,
}

// IsBuiltin 判断 src 是否引用内置字体。
func IsBuiltin(src string) bool {
	_, ok := trimScheme(src)
	return ok
}

// Load 返回内置字体数据，src 可写为 "builtin:lmsans10regular"、"built-in:..." 或裸名称。
func Load(src string) ([]byte, error) {
	name, _ := trimScheme(src)
	name = strings.ToLower(strings.TrimSpace(name))
	data, ok := builtin[name]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", src, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回排好序的内置字体名称。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func trimScheme(src string) (string, bool) {
	for _, prefix := range []string{"builtin:", "built-in:"} {
		if rest, ok := strings.CutPrefix(src, prefix); ok {
			return rest, true
		}
	}
	return src, false
}
