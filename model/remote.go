package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/service"
)

// RemotePredictor 是通过模型服务（REST/gRPC）预测的 Predictor 实现。
// 适用于模型不随 worker 分发、由独立在线端点承载的部署形态。
type RemotePredictor struct {
	name    string
	svc     service.MLService
	Timeout time.Duration
}

// NewRemotePredictor 基于一个 MLService 客户端创建远程预测器。
func NewRemotePredictor(name string, svc service.MLService, timeout time.Duration) *RemotePredictor {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RemotePredictor{
		name:    name,
		svc:     svc,
		Timeout: timeout,
	}
}

func (m *RemotePredictor) Name() string {
	return m.name
}

// Predict 调用远程模型服务进行预测（单条特征，内部走批量接口）。
// Predictor 接口不带 context，这里用自身的超时控制失败快速返回。
func (m *RemotePredictor) Predict(features []float64) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.Timeout)
	defer cancel()

	resp, err := m.svc.Predict(ctx, &service.PredictRequest{
		Instances: [][]float64{features},
	})
	if err != nil {
		return 0, fmt.Errorf("remote predict: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return 0, fmt.Errorf("remote predict: empty response")
	}
	return resp.Predictions[0], nil
}

var _ core.Predictor = (*RemotePredictor)(nil)
