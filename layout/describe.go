package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/shoehorn/binding"
	"github.com/ByLCY/shoehorn/dsl"
	"github.com/ByLCY/shoehorn/fonts"
)

// 由 fit 块的赋值解释为样式而非元素属性的键。
const (
	styleFont  = "font"
	styleColor = "color"
	styleAlign = "align"
)

var scenePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"A6":     {105, 148},
	"LETTER": {215.9, 279.4},
}

// Describe 把场景文件的语法树解释为场景描述：场景尺寸、元信息、字体以及每个 fit 元素的容器与属性。
// 文本中的 ${path} 占位符按 data 插值；data 为 nil 时保留原样。
func Describe(doc *dsl.Document, data any) (*SceneSpec, error) {
	if doc == nil || doc.Body == nil {
		return nil, fmt.Errorf("场景为空")
	}
	width, height, err := resolveSceneSize(doc.Params)
	if err != nil {
		return nil, fmt.Errorf("场景 %s: %w", doc.Name, err)
	}

	spec := &SceneSpec{
		Name:   doc.Name,
		Width:  width,
		Height: height,
		Meta:   DocumentMeta{Creator: "shoehorn"},
		Fonts:  map[string]FontResource{},
	}
	colors := map[string]Color{}

	// 先收集资源，fit 块可以引用在其后声明的字体与颜色。
	var fits []*dsl.Command
	for _, stmt := range doc.Body.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		switch cmd.Name {
		case "meta":
			collectMeta(cmd.Block, &spec.Meta)
		case "font":
			font := parseFontResource(cmd)
			if font.Name == "" {
				return nil, fmt.Errorf("%s: font 缺少名称", cmd.Pos)
			}
			spec.Fonts[font.Name] = font
		case "color":
			name, c, err := parseColorResource(cmd)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
			}
			colors[name] = c
		case "fit":
			fits = append(fits, cmd)
		default:
			return nil, fmt.Errorf("%s: 未知命令 %s", cmd.Pos, cmd.Name)
		}
	}
	if len(spec.Fonts) == 0 {
		spec.Fonts["Body"] = FontResource{Name: "Body", Src: "builtin:" + fonts.Default}
	}

	seen := map[string]bool{}
	for _, cmd := range fits {
		w, err := describeWidget(cmd, spec, colors, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		if seen[w.Name] {
			return nil, fmt.Errorf("%s: 元素名称重复：%s", cmd.Pos, w.Name)
		}
		seen[w.Name] = true
		spec.Widgets = append(spec.Widgets, w)
	}
	return spec, nil
}

// describeWidget 解释 fit <name> [at <x> <y>] size <w> <h> { ... }。
// 坐标与尺寸接受长度或相对场景尺寸的百分比。
func describeWidget(cmd *dsl.Command, scene *SceneSpec, colors map[string]Color, data any) (WidgetSpec, error) {
	if len(cmd.Args) == 0 {
		return WidgetSpec{}, fmt.Errorf("fit 缺少名称")
	}
	w := WidgetSpec{Tag: FitTag, Name: cmd.Args[0].Value, Attrs: map[string]string{}}

	var sized bool
	args := cmd.Args[1:]
	for len(args) > 0 {
		keyword := args[0].Value
		if len(args) < 3 {
			return w, fmt.Errorf("fit %s: %s 需要两个参数", w.Name, keyword)
		}
		a, b := args[1].Value, args[2].Value
		var err error
		switch keyword {
		case "at":
			w.X, w.Y, err = dimensions(a, b, scene)
		case "size":
			w.Width, w.Height, err = dimensions(a, b, scene)
			sized = true
		default:
			err = fmt.Errorf("未知参数 %s", keyword)
		}
		if err != nil {
			return w, fmt.Errorf("fit %s: %w", w.Name, err)
		}
		args = args[3:]
	}
	if !sized {
		return w, fmt.Errorf("fit %s: 缺少 size", w.Name)
	}
	if w.Width < 0 || w.Height < 0 {
		return w, fmt.Errorf("fit %s: 容器尺寸不能为负", w.Name)
	}

	fontName := ""
	w.Color = DefaultColor
	var text strings.Builder
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			switch {
			case stmt.Text != nil:
				text.WriteString(string(stmt.Text.Value))
			case stmt.Assignment != nil:
				key := strings.ToLower(stmt.Assignment.Key)
				value := stmt.Assignment.Value.Text()
				switch key {
				case styleFont:
					fontName = value
				case styleColor:
					c, err := resolveColor(value, colors)
					if err != nil {
						return w, fmt.Errorf("fit %s: %w", w.Name, err)
					}
					w.Color = c
				case styleAlign:
					w.Align = strings.ToLower(value)
				default:
					w.Attrs[key] = value
				}
			case stmt.Command != nil:
				return w, fmt.Errorf("fit %s: 不支持嵌套命令 %s", w.Name, stmt.Command.Name)
			}
		}
	}
	w.Text = binding.Interpolate(text.String(), data)

	font, err := resolveFont(fontName, scene.Fonts)
	if err != nil {
		return w, fmt.Errorf("fit %s: %w", w.Name, err)
	}
	w.Font = font
	return w, nil
}

func dimensions(a, b string, scene *SceneSpec) (float64, float64, error) {
	x, err := ParseDimension(a, scene.Width)
	if err != nil {
		return 0, 0, err
	}
	y, err := ParseDimension(b, scene.Height)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// resolveSceneSize 支持两种写法：预设纸张（A4/A5/A6/letter，可加 landscape）或显式的宽高。
func resolveSceneSize(params []*dsl.Lexeme) (float64, float64, error) {
	var lengths []float64
	var width, height float64
	landscape := false
	for _, p := range params {
		if p.Type == "Ident" {
			switch strings.ToLower(p.Value) {
			case "landscape":
				landscape = true
			case "portrait":
				landscape = false
			default:
				preset, ok := scenePresets[strings.ToUpper(p.Value)]
				if !ok {
					return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", p.Value)
				}
				width, height = preset[0], preset[1]
			}
			continue
		}
		l, err := ParseLength(p.Value)
		if err != nil {
			return 0, 0, err
		}
		lengths = append(lengths, l.ToMM())
	}
	switch len(lengths) {
	case 0:
	case 2:
		width, height = lengths[0], lengths[1]
	default:
		return 0, 0, fmt.Errorf("场景尺寸需要宽、高两个长度，得到 %d 个", len(lengths))
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("缺少场景尺寸")
	}
	if landscape && width < height {
		width, height = height, width
	}
	return width, height, nil
}

func collectMeta(block *dsl.Block, meta *DocumentMeta) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		value := stmt.Assignment.Value
		switch strings.ToLower(stmt.Assignment.Key) {
		case "title":
			meta.Title = value.Text()
		case "author":
			meta.Author = value.Text()
		case "subject":
			meta.Subject = value.Text()
		case "creator":
			meta.Creator = value.Text()
		case "keywords":
			meta.Keywords = value.Strings()
		}
	}
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			font.Src = stmt.Assignment.Value.Text()
		case "style":
			font.Style = stmt.Assignment.Value.Text()
		}
	}
	return font
}

// parseColorResource 解析 color <name> <value>，value 取最后一个参数。
func parseColorResource(cmd *dsl.Command) (string, Color, error) {
	if len(cmd.Args) < 2 {
		return "", Color{}, fmt.Errorf("color 需要名称与取值")
	}
	name := cmd.Args[0].Value
	c, err := ParseColor(cmd.Args[len(cmd.Args)-1].Value)
	if err != nil {
		return "", Color{}, fmt.Errorf("color %s: %w", name, err)
	}
	return name, c, nil
}

func resolveColor(value string, colors map[string]Color) (Color, error) {
	if value == "" {
		return DefaultColor, nil
	}
	if c, ok := colors[value]; ok {
		return c, nil
	}
	if strings.HasPrefix(value, "#") {
		return ParseColor(value)
	}
	return Color{}, fmt.Errorf("未声明的颜色 %s", value)
}

// resolveFont 查找具名字体；未指定时依次取 Body 与任意已声明字体。
func resolveFont(name string, declared map[string]FontResource) (FontResource, error) {
	if name != "" {
		font, ok := declared[name]
		if !ok {
			return FontResource{}, fmt.Errorf("未声明的字体 %s", name)
		}
		return font, nil
	}
	if font, ok := declared["Body"]; ok {
		return font, nil
	}
	for _, font := range declared {
		return font, nil
	}
	return FontResource{}, fmt.Errorf("没有可用字体")
}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（忽略透明度）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		rgb[i] = int(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
