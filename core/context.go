package core

import "github.com/rushteam/scorekit/pkg/utils"

// ScoreContext 承载作业/模型/批次信息，贯穿整个 Pipeline 透传。
// 每个 mini-batch 使用一个独立的 ScoreContext 实例，不跨批次复用。
type ScoreContext struct {
	JobID        string
	ModelName    string
	ModelVersion string

	// Params 请求级上下文参数（如 REST 触发时携带的附加参数）
	Params map[string]any

	// Labels 是作业级标签，可驱动 Pipeline 行为
	Labels map[string]utils.Label

	// Failures 收集本批次内被跳过的 item 失败（skip 策略下由 ScoreNode 写入），
	// 供编排器在批次结束后计入作业级失败阈值。
	Failures []*ItemFailure
}

// PutLabel 写入作业级 Label。
func (sctx *ScoreContext) PutLabel(key string, lbl utils.Label) {
	if sctx.Labels == nil {
		sctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := sctx.Labels[key]; ok {
		sctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	sctx.Labels[key] = lbl
}

// GetLabel 获取作业级 Label。
func (sctx *ScoreContext) GetLabel(key string) (utils.Label, bool) {
	if sctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := sctx.Labels[key]
	return lbl, ok
}

// AddFailure 记录一个被跳过的 item 失败。
func (sctx *ScoreContext) AddFailure(itemID string, err error) {
	sctx.Failures = append(sctx.Failures, &ItemFailure{ItemID: itemID, Err: err})
}
