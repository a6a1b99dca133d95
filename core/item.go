package core

import "github.com/rushteam/careerkit/pkg/utils"

// RoleItem 是预测链路中的统一承载结构：一个候选职位类别及其得分。
// Probability 是分类器输出的原始概率；Confidence 是 Top-K 归一化后的
// 百分比（仅在 Rank 阶段之后有值）。Labels 用于解释与策略驱动。
type RoleItem struct {
	Code        int     // 类别编码（训练产物的整数标签）
	Role        string  // 人类可读职位名（Rank 阶段由标签映射填充）
	Probability float64 // 原始类别概率
	Confidence  float64 // Top-K 归一化后的相对置信度（0-100）
	Labels      map[string]utils.Label
}

func NewRoleItem(code int) *RoleItem {
	return &RoleItem{
		Code:   code,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *RoleItem) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *RoleItem) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
