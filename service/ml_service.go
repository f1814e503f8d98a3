package service

import (
	"context"
)

// MLService 是统一的模型服务接口，用于对接在线打分端点（REST/gRPC 模型服务器）。
//
// 设计目标：
//   - 统一不同模型服务器的接口（TF Serving 风格、通用 /score 端点、自定义服务）
//   - 支持批量预测
//   - 支持超时控制
//   - 支持认证
//
// 使用示例：
//
//	client := service.NewRESTClient("http://localhost:8501", "diabetes")
//	resp, err := client.Predict(ctx, &service.PredictRequest{
//	    Instances: [][]float64{features},
//	})
type MLService interface {
	// Predict 批量预测
	Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error)

	// Health 健康检查
	Health(ctx context.Context) error

	// Close 关闭连接
	Close() error
}

// PredictRequest 预测请求
type PredictRequest struct {
	// Instances 特征实例列表（每个实例是一个定宽特征向量）
	// 格式：[[f1, f2, f3, ...], [f1, f2, f3, ...], ...]
	Instances [][]float64

	// ModelName 模型名称（可选，如果服务支持多模型）
	ModelName string

	// ModelVersion 模型版本（可选）
	ModelVersion string

	// Params 额外参数（可选）
	Params map[string]interface{}
}

// PredictResponse 预测响应
type PredictResponse struct {
	// Predictions 预测结果列表（与请求实例一一对应）
	Predictions []float64

	// Outputs 原始输出（可选，用于调试）
	Outputs interface{}

	// ModelVersion 模型版本（如果服务返回）
	ModelVersion string
}

// AuthConfig 认证配置
type AuthConfig struct {
	Type     string // "basic", "bearer", "api_key"
	Username string
	Password string
	Token    string
	APIKey   string
}
