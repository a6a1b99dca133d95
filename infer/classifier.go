// Package infer 提供推理阶段的 Pipeline 节点：把编码后的档案文本
// 变成"每个训练类别一个候选"的 RoleItem 集合。
package infer

import (
	"context"
	"fmt"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/pipeline"
	"github.com/rushteam/careerkit/pkg/utils"
)

// ClassifierNode 是一个 Infer Node：将 PredictContext.Text 经冻结
// 向量化器转入训练特征空间，再由分类器输出固定长度的类别概率分布，
// 每个类别封装为一个 RoleItem（Probability 为原始概率）。
//
// 候选集在此阶段是全量类别；Top-K 截断属于后续 Rank 阶段的职责。
type ClassifierNode struct {
	Vectorizer core.Vectorizer
	Classifier core.Classifier
}

func (n *ClassifierNode) Name() string {
	return "infer.classifier"
}

func (n *ClassifierNode) Kind() pipeline.Kind {
	return pipeline.KindInfer
}

func (n *ClassifierNode) Process(
	ctx context.Context,
	pctx *core.PredictContext,
	_ []*core.RoleItem,
) ([]*core.RoleItem, error) {
	features := n.Vectorizer.Transform(pctx.Text)

	probs, err := n.Classifier.PredictProba(ctx, features)
	if err != nil {
		return nil, err
	}

	classes := n.Classifier.Classes()
	if len(probs) != len(classes) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInternalError,
			fmt.Sprintf("infer: classifier returned %d probabilities for %d classes", len(probs), len(classes)))
	}
	items := make([]*core.RoleItem, 0, len(classes))
	for i, code := range classes {
		it := core.NewRoleItem(code)
		it.Probability = probs[i]
		it.PutLabel("infer_model", utils.Label{Value: n.Classifier.Name(), Source: "infer"})
		items = append(items, it)
	}
	return items, nil
}
