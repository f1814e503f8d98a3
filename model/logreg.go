package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rushteam/scorekit/core"
)

// LogReg 实现了定宽特征向量上的逻辑回归 (Logistic Regression) 分类器。
// 它是二分类风险预估最基础也最经典的算法。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 最终输出值 P 代表正类概率，范围在 (0, 1) 之间。
// 特征按位置对应权重（输入文件中的列序即权重序）。
type LogReg struct {
	Bias    float64   // 偏置项 (Bias / Intercept)
	Weights []float64 // 特征权重，按列位置对应
}

// LoadLogReg 从 JSON 负载反序列化逻辑回归模型。
// 负载格式：{"bias": -1.2, "weights": [0.1, 0.02, ...]}
func LoadLogReg(payload []byte) (core.Predictor, error) {
	var raw struct {
		Bias    float64   `json:"bias"`
		Weights []float64 `json:"weights"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if len(raw.Weights) == 0 {
		return nil, fmt.Errorf("logreg: empty weights")
	}
	return &LogReg{Bias: raw.Bias, Weights: raw.Weights}, nil
}

func (m *LogReg) Name() string { return "logreg" }

func (m *LogReg) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("logreg: feature count %d does not match weight count %d",
				len(features), len(m.Weights)))
	}
	z := m.Bias
	for i, v := range features {
		z += m.Weights[i] * v
	}
	return 1 / (1 + math.Exp(-z)), nil
}

var _ core.Predictor = (*LogReg)(nil)
