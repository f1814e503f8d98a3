package feast

// Client 是 Feast Feature Store 的客户端接口（遵循 DDD 原则，高内聚低耦合）。
//
// Feast 是一个开源的 Feature Store，提供：
//   - 在线特征存储（Online Store）：用于实时/批量打分前的特征补全
//   - 离线特征存储（Offline Store）：用于训练数据
//
// 使用方式：
//   - 方式1：使用 GrpcClient（基于官方 Go SDK）
//   - 方式2：自行实现此接口（参考 GrpcClient 实现）
//
// 参考：https://github.com/feast-dev/feast
import "context"

type Client interface {
	// GetOnlineFeatures 获取在线特征（打分前补全特征向量）
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["patient_stats:glucose", "patient_stats:bmi"]
	//   - EntityRows: 实体行，例如 [{"patient_id": 1001}]
	//
	// 返回：
	//   - FeatureVectors: 特征向量列表，与实体行一一对应
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表
	Features []string

	// EntityRows 实体行，例如 [{"patient_id": 1001}, {"patient_id": 1002}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}
