package scorer

import (
	"context"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/pipeline"
	"github.com/rushteam/scorekit/pkg/utils"
)

// ScoreNode 是把 core.BatchScorer 接入 Pipeline 的打分 Node。
// - 调用 ProcessBatch 并把预测标签写回 item.Label
// - 写入 labels：scored_by
// - skip 策略下被跳过的 item 从输出中剔除，其失败记入 sctx.Failures
type ScoreNode struct {
	Scorer core.BatchScorer
}

func (n *ScoreNode) Name() string        { return "score.batch" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *ScoreNode) Process(
	ctx context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	br, err := n.Scorer.ProcessBatch(ctx, items)
	if err != nil {
		return nil, err
	}

	failed := make(map[string]bool, len(br.Failures))
	for _, f := range br.Failures {
		failed[f.ItemID] = true
		if sctx != nil {
			sctx.AddFailure(f.ItemID, f.Err)
		}
	}

	// Results 与成功 item 的输入顺序一致，按序回填
	out := make([]*core.Item, 0, len(br.Results))
	next := 0
	for _, it := range items {
		if it == nil || failed[it.ID] {
			continue
		}
		if next >= len(br.Results) {
			break
		}
		r := br.Results[next]
		next++

		it.Label = r.Label
		it.Score = r.Score
		if sctx != nil {
			it.PutLabel("scored_by", utils.Label{Value: sctx.ModelName, Source: "score"})
		}
		out = append(out, it)
	}

	return out, nil
}

var _ pipeline.Node = (*ScoreNode)(nil)
