package pipeline

import (
	"context"

	"github.com/rushteam/careerkit/core"
)

// Pipeline 是 Careerkit 的核心抽象：把预测逻辑拆成可组合的 Node 链
// （Encode -> Infer -> Rank -> PostProcess）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	pctx *core.PredictContext,
	items []*core.RoleItem,
) ([]*core.RoleItem, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, pctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
