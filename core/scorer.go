package core

import "context"

// BatchScorer 是批量打分器的领域接口：一次初始化，多次处理 mini-batch。
//
// 生命周期契约（由外部编排器按固定顺序调用）：
//   - Init 在 worker 生命周期内恰好成功调用一次：解析模型工件并反序列化为
//     内存中的 Predictor。失败对该 worker 是致命的，不在此层重试。
//   - ProcessBatch 可重复调用；每次调用独立、无跨批次可变状态，
//     输出顺序与输入顺序一致，长度相等（除失败路径外）。
//
// 并发模型：打分器自身是纯顺序、单线程的；并发由外部编排器提供，
// 每个 worker 独立持有一个已初始化的实例。
type BatchScorer interface {
	// Init 一次性初始化：解析并载入模型，进入 Ready 状态。
	// 重复调用是幂等的 no-op（返回首次调用的结果）。
	Init(ctx context.Context) error

	// ProcessBatch 处理一个 mini-batch，逐条产出打分结果。
	ProcessBatch(ctx context.Context, items []*Item) (*BatchResult, error)
}

// BatchResult 是一次 ProcessBatch 的产出。
// Results 与成功处理的 item 的输入顺序一致；
// Failures 仅在 skip 策略下出现，供编排器计入作业级失败阈值。
type BatchResult struct {
	Results  []Result
	Failures []*ItemFailure
}

// ItemFailure 是单个 item 的可区分失败（如格式错误），携带原始错误。
type ItemFailure struct {
	ItemID string
	Err    error
}
