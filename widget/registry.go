package widget

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ByLCY/shoehorn/layout"
)

var (
	ErrAlreadyDefined = errors.New("widget: tag already defined")
	ErrUnknownTag     = errors.New("widget: unknown tag")
)

// Factory 根据描述构造元素。
type Factory func(env Env, spec layout.WidgetSpec) (*Element, error)

// Registry 保存标签到工厂的映射。进程启动时显式创建并登记，没有全局实例。
type Registry struct {
	env Env

	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry 创建空注册表，env 会传给每个工厂。
func NewRegistry(env Env) *Registry {
	return &Registry{env: env, factories: map[string]Factory{}}
}

// Define 登记标签；同一标签只能登记一次。
func (r *Registry) Define(tag string, factory Factory) error {
	if tag == "" || factory == nil {
		return fmt.Errorf("widget: define requires tag and factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[tag]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyDefined, tag)
	}
	r.factories[tag] = factory
	return nil
}

// Defined reports whether tag has a factory.
func (r *Registry) Defined(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[tag]
	return ok
}

// Create 用 spec.Tag 对应的工厂构造元素。
func (r *Registry) Create(spec layout.WidgetSpec) (*Element, error) {
	r.mu.RLock()
	factory, ok := r.factories[spec.Tag]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, spec.Tag)
	}
	el, err := factory(r.env, spec)
	if err != nil {
		return nil, fmt.Errorf("创建元素 %s 失败: %w", spec.Name, err)
	}
	return el, nil
}
