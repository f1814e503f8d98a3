package core

// Predictor 是预测器的最小抽象：输入定宽特征向量，输出一个分数。
// 具体实现可以是本地模型（逻辑回归等）或远程模型服务（REST/gRPC）。
//
// 设计原则：
//   - 定义在领域层（core），由 model 包实现
//   - 进程生命周期内只读：一次载入，多次调用
//   - 实现必须可被多个 goroutine 并发调用（打分器各自独立持有时天然满足）
type Predictor interface {
	// Name 返回预测器名称（用于日志/标签）
	Name() string

	// Predict 对单条特征向量预测，返回原始分数（如正类概率）
	Predict(features []float64) (float64, error)
}
