package pipeline

import (
	"context"

	"github.com/rushteam/scorekit/core"
)

// Pipeline 是 Scorekit 的核心抽象：把 mini-batch 的处理逻辑拆成可组合的 Node 链
// （Enrich → Score → Filter）。编排器对每个 mini-batch 调用一次 Run。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, sctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
