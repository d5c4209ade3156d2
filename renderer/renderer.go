package renderer

import "github.com/ByLCY/shoehorn/layout"

// Renderer 将适配完成的场景输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(scene *layout.Scene) ([]byte, error)
}
