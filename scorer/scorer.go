package scorer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/model"
)

// MalformedPolicy 决定格式错误的输入行如何处理。
type MalformedPolicy string

const (
	// PolicyAbort 整个 mini-batch 失败（默认）：绝不为坏数据编造预测。
	PolicyAbort MalformedPolicy = "abort"
	// PolicySkip 跳过坏行并上报为可区分的 item 失败，由编排器计入作业阈值。
	PolicySkip MalformedPolicy = "skip"
)

// DefaultArity 是参考配置下特征向量的列数。
const DefaultArity = 8

// LoaderFunc 与 model.Load 同形，可注入以替换内置的格式加载器（测试常用）。
type LoaderFunc func(artifact *core.ModelArtifact) (core.Predictor, error)

// LocalScorer 是 core.BatchScorer 的标准实现：
// Init 一次性从注册表解析模型并反序列化为 Predictor，之后对每个
// mini-batch 顺序处理，逐条解析特征、预测、产出 `<文件名>: <标签>` 结果。
//
// 除 Init 建立的只读 predictor 外不持有任何跨批次可变状态；
// 同一 mini-batch 重复处理产出完全相同的结果。
type LocalScorer struct {
	registry     core.ModelRegistry
	modelName    string
	modelVersion string
	loader       LoaderFunc

	arity     int
	threshold float64
	policy    MalformedPolicy

	initOnce  sync.Once
	initErr   error
	predictor core.Predictor
}

// NewLocalScorer 创建一个批量打分器。此时不载入模型；
// 模型载入发生在 Init（由编排器在 worker 启动时调用一次）。
func NewLocalScorer(registry core.ModelRegistry, modelName string, opts ...Option) *LocalScorer {
	s := &LocalScorer{
		registry:  registry,
		modelName: modelName,
		loader:    model.Load,
		arity:     DefaultArity,
		threshold: 0.5,
		policy:    PolicyAbort,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option 打分器配置选项
type Option func(*LocalScorer)

// WithModelVersion 设置模型版本（默认解析最新版本）
func WithModelVersion(version string) Option {
	return func(s *LocalScorer) {
		s.modelVersion = version
	}
}

// WithArity 设置特征向量列数（默认 8）
func WithArity(arity int) Option {
	return func(s *LocalScorer) {
		s.arity = arity
	}
}

// WithThreshold 设置正类判定阈值（默认 0.5）
func WithThreshold(threshold float64) Option {
	return func(s *LocalScorer) {
		s.threshold = threshold
	}
}

// WithMalformedPolicy 设置坏行处理策略（默认 abort）
func WithMalformedPolicy(policy MalformedPolicy) Option {
	return func(s *LocalScorer) {
		s.policy = policy
	}
}

// WithLoader 注入模型加载函数（默认 model.Load）
func WithLoader(loader LoaderFunc) Option {
	return func(s *LocalScorer) {
		s.loader = loader
	}
}

// Init 一次性初始化：解析模型工件并反序列化为 Predictor。
// 失败对 worker 是致命的，不在此层重试；重复调用返回首次调用的结果。
func (s *LocalScorer) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		artifact, err := s.registry.Resolve(ctx, s.modelName, s.modelVersion)
		if err != nil {
			s.initErr = err
			return
		}
		p, err := s.loader(artifact)
		if err != nil {
			s.initErr = err
			return
		}
		s.predictor = p
	})
	return s.initErr
}

// ProcessBatch 处理一个 mini-batch：逐条（按输入顺序）解析、预测、产出结果行。
// 空批次返回空结果；成功时 len(Results) + len(Failures) == len(items)。
func (s *LocalScorer) ProcessBatch(ctx context.Context, items []*core.Item) (*core.BatchResult, error) {
	if s.predictor == nil {
		if s.initErr != nil {
			return nil, s.initErr
		}
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
			"scorer: ProcessBatch called before Init")
	}

	br := &core.BatchResult{
		Results: make([]core.Result, 0, len(items)),
	}

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		features, err := s.featuresOf(it)
		if err == nil {
			var score float64
			score, err = s.predictor.Predict(features)
			if err == nil {
				br.Results = append(br.Results, core.Result{
					ItemID: it.ID,
					Label:  s.labelFor(score),
					Score:  score,
				})
				continue
			}
		}

		if s.policy == PolicySkip {
			br.Failures = append(br.Failures, &core.ItemFailure{ItemID: it.ID, Err: err})
			continue
		}
		return nil, err
	}

	return br, nil
}

// featuresOf 返回 item 的定宽特征向量：已补全的 Features 优先，否则解析 Raw。
func (s *LocalScorer) featuresOf(it *core.Item) ([]float64, error) {
	if it.Features != nil {
		if len(it.Features) != s.arity {
			return nil, malformed(it.ID,
				fmt.Sprintf("expected %d features, got %d", s.arity, len(it.Features)))
		}
		return it.Features, nil
	}
	return ParseFeatures(it.ID, it.Raw, s.arity)
}

// labelFor 把模型原始分数映射为类别标签（二分类："1" 正类 / "0" 负类）。
func (s *LocalScorer) labelFor(score float64) string {
	if score >= s.threshold {
		return "1"
	}
	return "0"
}

// ParseFeatures 把一行逗号分隔的数值解析为定宽特征向量。
// 列数不符或数值非法返回 MALFORMED_INPUT 领域错误，错误消息携带 item 标识。
func ParseFeatures(itemID string, raw []byte, arity int) ([]float64, error) {
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return nil, malformed(itemID, "empty input")
	}

	fields := strings.Split(content, ",")
	if len(fields) != arity {
		return nil, malformed(itemID,
			fmt.Sprintf("expected %d columns, got %d", arity, len(fields)))
	}

	features := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, malformed(itemID,
				fmt.Sprintf("column %d: invalid number %q", i, strings.TrimSpace(f)))
		}
		features[i] = v
	}
	return features, nil
}

func malformed(itemID, reason string) error {
	return core.NewDomainError(core.ModuleScorer, core.ErrorCodeMalformedInput,
		fmt.Sprintf("scorer: item %s: %s", itemID, reason))
}

// 确保 LocalScorer 实现了 core.BatchScorer 接口
var _ core.BatchScorer = (*LocalScorer)(nil)
