package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/pipeline"
	"github.com/rushteam/scorekit/pkg/dsl"
)

// ExprFilter 是基于 CEL 表达式的结果过滤 Node：
// 表达式为真的 item 保留并发布，为假的丢弃。
// 典型用法：只发布高风险结果 `item.label == "1"`，
// 或只发布高置信度结果 `item.score >= 0.9`。
type ExprFilter struct {
	Expr string
}

func (n *ExprFilter) Name() string        { return "filter.expr" }
func (n *ExprFilter) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *ExprFilter) Process(
	ctx context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Expr == "" || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		keep, err := dsl.NewEval(item, sctx).Evaluate(n.Expr)
		if err != nil {
			// 表达式错误是配置问题，直接失败而不是静默吞掉
			return nil, fmt.Errorf("filter: evaluate %q: %w", n.Expr, err)
		}
		if keep {
			out = append(out, item)
		}
	}

	return out, nil
}

var _ pipeline.Node = (*ExprFilter)(nil)
