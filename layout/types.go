package layout

// 该文件定义场景描述与适配后的场景快照，供场景构建、渲染与调试 JSON 共用。

// FitTag 是场景文件中 fit 命令对应的元素标签。
const FitTag = "shoehorn-text"

// SceneSpec 是从场景文件得到的描述：尚未适配，只有容器与属性。
type SceneSpec struct {
	Name    string                  `json:"name"`
	Width   float64                 `json:"width"`
	Height  float64                 `json:"height"`
	Meta    DocumentMeta            `json:"meta"`
	Fonts   map[string]FontResource `json:"fonts"`
	Widgets []WidgetSpec            `json:"widgets"`
}

// WidgetSpec 描述一个自适应文本元素：容器位置尺寸（mm）、属性与文本。
type WidgetSpec struct {
	Tag    string            `json:"tag"`
	Name   string            `json:"name"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	Attrs  map[string]string `json:"attrs"`
	Text   string            `json:"text"`
	Font   FontResource      `json:"font"`
	Color  Color             `json:"color"`
	Align  string            `json:"align,omitempty"`
}

// Scene 是适配完成后的快照，渲染器只读取它。
type Scene struct {
	Width  float64                 `json:"width"`
	Height float64                 `json:"height"`
	Meta   DocumentMeta            `json:"meta"`
	Fonts  map[string]FontResource `json:"fonts"`
	Texts  []TextBox               `json:"texts"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:<name>。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DefaultColor 是未指定颜色时的文本色。
var DefaultColor = Color{R: 30, G: 30, B: 30}

// TextBox 是一个已适配的文本块：容器坐标、最终字号与按该字号排好的行。
type TextBox struct {
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Align      string     `json:"align,omitempty"`
	Mode       string     `json:"mode"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
