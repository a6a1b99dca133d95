package core

import "github.com/rushteam/careerkit/pkg/utils"

// PredictContext 承载一次预测请求的用户/档案/场景信息，贯穿整个 Pipeline 透传。
//
// UserID 由外部身份层解析后传入（本库不做认证），作为历史账本的归属键。
type PredictContext struct {
	UserID string // 已解析的用户身份（如邮箱）

	// Profile 是强类型候选人档案
	Profile *Profile

	// Text 是编码器产出的规范文本表示，由 Infer 节点消费
	Text string

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	// 例如：strict_intake、flag 规则版本等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（如 top_k 覆盖、实验桶）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (pctx *PredictContext) PutLabel(key string, lbl utils.Label) {
	if pctx.Labels == nil {
		pctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := pctx.Labels[key]; ok {
		pctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	pctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (pctx *PredictContext) GetLabel(key string) (utils.Label, bool) {
	if pctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := pctx.Labels[key]
	return lbl, ok
}
