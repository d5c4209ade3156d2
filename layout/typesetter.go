package layout

// 折行策略。
const (
	WrapNone   = "nowrap" // 只在显式换行处分行
	WrapNormal = "normal" // 优先在空白处分行，单词过长时在词内拆分
)

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// fontSize、lineHeight、width 均为毫米；width <= 0 表示不限宽。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// Extent 返回多行文本的外框：宽取最宽一行，高为各行高度与行距之和。
func Extent(lines []TextLine) (width, height float64) {
	for _, ln := range lines {
		if ln.Width > width {
			width = ln.Width
		}
		height += ln.GapBefore + ln.Height
	}
	return width, height
}
