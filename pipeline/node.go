package pipeline

import (
	"context"

	"github.com/rushteam/scorekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindEnrich Kind = "enrich" // 补全阶段：为 item 解析/补全特征向量
	KindScore  Kind = "score"  // 打分阶段：调用批量打分器产出预测标签
	KindFilter Kind = "filter" // 过滤阶段：按规则筛选要发布的结果
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便补全、打分、过滤等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		sctx *core.ScoreContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
