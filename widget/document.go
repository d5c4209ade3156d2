package widget

import (
	"errors"
	"fmt"
	"slices"
)

// ErrAttached 表示元素已经挂在某个 Document 上。
var ErrAttached = errors.New("widget: element already attached")

// Document 是元素所在的实时树。挂载即开始监听并同步适配，移除即停止监听。
type Document struct {
	elements []*Element
}

// NewDocument creates an empty live tree.
func NewDocument() *Document { return &Document{} }

// Append 挂载元素。名称在同一 Document 内必须唯一。
func (d *Document) Append(el *Element) error {
	if el.doc != nil {
		return fmt.Errorf("%w: %s", ErrAttached, el.name)
	}
	if el.name != "" && d.Lookup(el.name) != nil {
		return fmt.Errorf("widget: duplicate element name %q", el.name)
	}
	d.elements = append(d.elements, el)
	el.connected(d)
	return nil
}

// Remove 卸载元素，返回元素是否在树中。
func (d *Document) Remove(el *Element) bool {
	idx := slices.Index(d.elements, el)
	if idx < 0 {
		return false
	}
	d.elements = slices.Delete(d.elements, idx, idx+1)
	el.disconnected()
	return true
}

// Lookup 按名称查找已挂载的元素。
func (d *Document) Lookup(name string) *Element {
	for _, el := range d.elements {
		if el.name == name {
			return el
		}
	}
	return nil
}

// Elements 按挂载顺序返回元素。
func (d *Document) Elements() []*Element { return slices.Clone(d.elements) }
