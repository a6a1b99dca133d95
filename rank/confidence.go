// Package rank 提供排序阶段的 Pipeline 节点：Top-K 截断、置信度
// 归一化与职位标签映射。
package rank

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/pipeline"
	"github.com/rushteam/careerkit/pkg/dsl"
	"github.com/rushteam/careerkit/pkg/utils"
)

// DefaultTopK 是默认保留的推荐数量。
const DefaultTopK = 5

// DefaultFlagThreshold 是默认的低置信度标记阈值（百分比）。
// 首位置信度严格低于该值的预测被标记待复核；恰好等于阈值不标记。
const DefaultFlagThreshold = 40.0

// ConfidenceNode 是一个 Rank Node：
//
//  1. 按原始概率取前 K 个类别（同分时保持类别在分布中的原始顺序，
//     排序稳定）；
//  2. 将选中的 K 个概率重新缩放到总和 100——有意为之的展示口径：
//     产出的 Confidence 是"展示的候选之间的相对份额"，不是校准后验
//     概率（被截断类别的概率质量被忽略），消费方不得混淆两者；
//  3. 将类别编码经职位标签映射转为人类可读职位名，映射缺失的编码
//     渲染为占位名 Role_{code}，而不是报错；
//  4. 对首位候选执行可配置的 CEL 标记规则（默认等价于
//     `item.confidence < 40.0`），命中则打上 flagged 标签。
//
// 输出按 Confidence 降序：首位是主推荐，其余是备选。
type ConfidenceNode struct {
	// K 保留的推荐数量；<= 0 时取 DefaultTopK
	K int

	// RoleLabels 类别编码 -> 职位名的固定映射，随训练工件版本化
	RoleLabels map[int]string

	// FlagThreshold 低置信度标记阈值；<= 0 时取 DefaultFlagThreshold
	FlagThreshold float64

	// FlagRule 可选的 CEL 标记规则，非空时替代阈值判定
	FlagRule string

	Logger *slog.Logger
}

func (n *ConfidenceNode) Name() string {
	return "rank.confidence"
}

func (n *ConfidenceNode) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *ConfidenceNode) Process(
	_ context.Context,
	pctx *core.PredictContext,
	items []*core.RoleItem,
) ([]*core.RoleItem, error) {
	if len(items) == 0 {
		return items, nil
	}

	k := n.K
	if k <= 0 {
		k = DefaultTopK
	}

	// 稳定排序：同分类别保持分布中的原始顺序
	ranked := make([]*core.RoleItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	var mass float64
	for _, it := range ranked {
		mass += it.Probability
	}

	for _, it := range ranked {
		if mass > 0 {
			it.Confidence = round2(it.Probability / mass * 100)
		}
		it.Role = n.roleName(it.Code)
		it.PutLabel("rank_model", utils.Label{Value: n.Name(), Source: "rank"})
	}

	n.flagTop(pctx, ranked)
	return ranked, nil
}

// roleName 将类别编码映射为职位名；映射缺失时返回占位名。
func (n *ConfidenceNode) roleName(code int) string {
	if name, ok := n.RoleLabels[code]; ok {
		return name
	}
	return fmt.Sprintf("Role_%d", code)
}

// flagTop 对首位候选执行标记规则。
func (n *ConfidenceNode) flagTop(pctx *core.PredictContext, ranked []*core.RoleItem) {
	if len(ranked) == 0 {
		return
	}
	top := ranked[0]

	var hit bool
	if n.FlagRule != "" {
		var err error
		hit, err = dsl.NewEval(top, pctx).Evaluate(n.FlagRule)
		if err != nil {
			// 规则损坏时退回阈值判定，不让一条坏规则打断预测
			n.logger().Error("flag rule failed, falling back to threshold", "rule", n.FlagRule, "err", err)
			hit = top.Confidence < n.threshold()
		}
	} else {
		hit = top.Confidence < n.threshold()
	}

	if hit {
		top.PutLabel("flagged", utils.Label{Value: "flagged", Source: "rank"})
	}
}

func (n *ConfidenceNode) threshold() float64 {
	if n.FlagThreshold > 0 {
		return n.FlagThreshold
	}
	return DefaultFlagThreshold
}

func (n *ConfidenceNode) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
