package pipeline

import (
	"context"

	"github.com/rushteam/careerkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindEncode      Kind = "encode"      // 编码阶段：档案 -> 规范文本/特征向量
	KindInfer       Kind = "infer"       // 推理阶段：文本 -> 每个训练类别一个候选
	KindRank        Kind = "rank"        // 排序阶段：Top-K 截断 + 置信度归一化 + 标签映射
	KindPostProcess Kind = "postprocess" // 后处理阶段：标记规则、结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态：Infer 生成候选，
// Rank 截断重排，PostProcess 打标。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		pctx *core.PredictContext,
		items []*core.RoleItem,
	) ([]*core.RoleItem, error)
}
