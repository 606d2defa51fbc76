package strategy

import (
	"errors"
	"fmt"
)

// ErrUnknownModel 严格模式下 modelKey 未登记策略
var ErrUnknownModel = errors.New("no enhancement strategy registered for model")

// defaultTable 模型 key 到策略的静态映射
var defaultTable = map[string]Strategy{
	"sd_xl_turbo":      KeywordBoosted{},
	"stable_diffusion": KeywordBoosted{},
	"midjourney_v7":    TemplateFormat{},
	"midjourney":       TemplateFormat{},
	"dall_e_3":         Minimal{},
	"dall_e_2":         Minimal{},
}

// byName 规格表中 strategy 字段可引用的策略
var byName = map[string]Strategy{
	KeywordBoosted{}.Name(): KeywordBoosted{},
	TemplateFormat{}.Name(): TemplateFormat{},
	Minimal{}.Name():        Minimal{},
}

// Selector 按 modelKey 选择策略
type Selector struct {
	table    map[string]Strategy
	fallback Strategy
	strict   bool
}

// NewSelector 创建选择器；strict 为 true 时未知 key 返回 ErrUnknownModel，否则回退到 Minimal
func NewSelector(strict bool) *Selector {
	table := make(map[string]Strategy, len(defaultTable))
	for k, s := range defaultTable {
		table[k] = s
	}
	return &Selector{table: table, fallback: Minimal{}, strict: strict}
}

// Select 返回策略；第二个返回值表示是否显式命中（静态表或规格声明的 strategy）
func (s *Selector) Select(modelKey, declared string) (Strategy, bool, error) {
	if st, ok := s.table[modelKey]; ok {
		return st, true, nil
	}
	if st, ok := byName[declared]; ok {
		return st, true, nil
	}
	if s.strict {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownModel, modelKey)
	}
	return s.fallback, false, nil
}

// Strict 是否为严格模式
func (s *Selector) Strict() bool {
	return s.strict
}
