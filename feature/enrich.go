package feature

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/feast"
	"github.com/rushteam/scorekit/pipeline"
	"github.com/rushteam/scorekit/pkg/conv"
	"github.com/rushteam/scorekit/pkg/utils"
)

// EnrichNode 是特征补全 Node：对尚未携带特征向量的 item，
// 按实体 ID 从在线 Feature Store 批量拉取特征并按声明顺序装配为定宽向量。
//
// 适用形态：输入文件只存实体 ID（而非完整特征行），特征由 Feature Store 承载。
// 已携带 Features 或 Raw 的 item 原样透传（打分器自行解析 Raw）。
type EnrichNode struct {
	// Client Feature Store 客户端
	Client feast.Client

	// Features 特征名称列表，顺序即特征向量的列序
	Features []string

	// EntityKey 实体键名，如 "patient_id"
	EntityKey string

	// Project 项目名称（可选）
	Project string
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindEnrich }

func (n *EnrichNode) Process(
	ctx context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Client == nil || len(items) == 0 {
		return items, nil
	}

	// 只补全没有特征来源的 item
	pending := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Features == nil && len(it.Raw) == 0 {
			pending = append(pending, it)
		}
	}
	if len(pending) == 0 {
		return items, nil
	}

	entityRows := make([]map[string]interface{}, len(pending))
	for i, it := range pending {
		entityRows[i] = map[string]interface{}{
			n.EntityKey: n.entityID(it),
		}
	}

	resp, err := n.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   n.Features,
		EntityRows: entityRows,
		Project:    n.Project,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: enrich: %v", err))
	}
	if len(resp.FeatureVectors) != len(pending) {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feature: vector count mismatch: expected %d, got %d",
				len(pending), len(resp.FeatureVectors)))
	}

	for i, it := range pending {
		vec := resp.FeatureVectors[i]
		features := make([]float64, 0, len(n.Features))
		for _, name := range n.Features {
			f, ok := conv.ToFloat64(vec.Values[name])
			if !ok {
				return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
					fmt.Sprintf("feature: item %s: missing or non-numeric feature %q", it.ID, name))
			}
			features = append(features, f)
		}
		it.Features = features
		it.PutLabel("enriched", utils.Label{Value: "feast", Source: "enrich"})
	}

	return items, nil
}

// entityID 从 item 提取实体 ID：优先 Meta[EntityKey]，否则取文件名去掉扩展名。
func (n *EnrichNode) entityID(it *core.Item) interface{} {
	if v, ok := it.Meta[n.EntityKey]; ok {
		return v
	}
	id := it.ID
	if idx := strings.LastIndex(id, "."); idx > 0 {
		id = id[:idx]
	}
	return id
}

var _ pipeline.Node = (*EnrichNode)(nil)
