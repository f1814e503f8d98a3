package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/feast"
	"github.com/rushteam/scorekit/feature"
	"github.com/rushteam/scorekit/filter"
	"github.com/rushteam/scorekit/job"
	"github.com/rushteam/scorekit/pipeline"
	"github.com/rushteam/scorekit/pkg/conv"
	"github.com/rushteam/scorekit/registry"
	"github.com/rushteam/scorekit/scorer"
	"github.com/rushteam/scorekit/store"
)

// BuildStore 根据配置构建存储实现。
func BuildStore(cfg *JobConfig) (core.AppendStore, error) {
	switch cfg.Store.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(cfg.Store.Addr, cfg.Store.DB)
	default:
		return nil, fmt.Errorf("config: unknown store type %q", cfg.Store.Type)
	}
}

// BuildRegistry 在给定存储之上构建模型注册表。
func BuildRegistry(s core.Store) core.ModelRegistry {
	return registry.NewStoreRegistry(s, "models/")
}

// BuildScorerFactory 返回给编排器用的打分器工厂：
// 每个 worker 调用一次，得到独立的打分器实例。
func BuildScorerFactory(cfg *JobConfig, reg core.ModelRegistry) job.ScorerFactory {
	return func() (core.BatchScorer, error) {
		return scorer.NewLocalScorer(reg, cfg.Model.Name,
			scorer.WithModelVersion(cfg.Model.Version),
			scorer.WithThreshold(cfg.Model.Threshold),
			scorer.WithMalformedPolicy(scorer.MalformedPolicy(cfg.Scoring.MalformedPolicy)),
		), nil
	}
}

// BuildNodes 按配置构建打分前后的 Node 链。
func BuildNodes(cfg *JobConfig) (pre, post []pipeline.Node, err error) {
	if cfg.Enrich.Enabled {
		client, err := feast.NewGrpcClient(cfg.Enrich.Host, cfg.Enrich.Port, cfg.Enrich.Project)
		if err != nil {
			return nil, nil, err
		}
		pre = append(pre, &feature.EnrichNode{
			Client:    client,
			Features:  cfg.Enrich.Features,
			EntityKey: cfg.Enrich.EntityKey,
			Project:   cfg.Enrich.Project,
		})
	}
	if cfg.Scoring.Filter != "" {
		post = append(post, &filter.ExprFilter{Expr: cfg.Scoring.Filter})
	}
	return pre, post, nil
}

// BuildManager 组装完整的作业管理器：存储、注册表、编排器、收集器前缀。
// 返回的 store 供调用方注册模型与暂存输入。
func BuildManager(cfg *JobConfig, logger *zap.SugaredLogger) (*job.Manager, core.AppendStore, core.ModelRegistry, error) {
	s, err := BuildStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	reg := BuildRegistry(s)

	pre, post, err := BuildNodes(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	orch := job.NewOrchestrator(s, cfg.Input.Prefix, BuildScorerFactory(cfg, reg),
		job.WithBatchSize(cfg.Scoring.MiniBatchSize),
		job.WithWorkers(cfg.Scoring.Workers),
		job.WithErrorThreshold(*cfg.Scoring.ErrorThreshold),
		job.WithModelInfo(cfg.Model.Name, cfg.Model.Version),
		job.WithPreNodes(pre...),
		job.WithPostNodes(post...),
		job.WithLogger(logger),
	)

	return job.NewManager(orch, s, cfg.Output.Prefix, logger), s, reg, nil
}

// NewNodeFactory 返回注册了内置 Node 的工厂，
// 供 pipeline.Config 以声明方式组装 Node 链。
func NewNodeFactory() *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("filter.expr", func(c map[string]interface{}) (pipeline.Node, error) {
		expr := conv.ConfigGet(c, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("filter.expr: expr is required")
		}
		return &filter.ExprFilter{Expr: expr}, nil
	})

	f.Register("feature.enrich", func(c map[string]interface{}) (pipeline.Node, error) {
		host := conv.ConfigGet(c, "host", "")
		if host == "" {
			return nil, fmt.Errorf("feature.enrich: host is required")
		}
		port := int(conv.ConfigGetInt64(c, "port", 0))
		project := conv.ConfigGet(c, "project", "")
		entityKey := conv.ConfigGet(c, "entity_key", "")

		features := conv.SliceAnyToString(c["features"])
		if len(features) == 0 {
			return nil, fmt.Errorf("feature.enrich: features is required")
		}

		client, err := feast.NewGrpcClient(host, port, project)
		if err != nil {
			return nil, err
		}
		return &feature.EnrichNode{
			Client:    client,
			Features:  features,
			EntityKey: entityKey,
			Project:   project,
		}, nil
	})

	return f
}

// RegisterScoreNode 在工厂上注册 "score.batch" 构建器：
// 从配置构建 LocalScorer（模型解析依赖给定的注册表）。
// 打分器的 Init 由使用方在运行前调用（编排器形态下是 worker 启动时）。
func RegisterScoreNode(f *pipeline.NodeFactory, reg core.ModelRegistry) {
	f.Register("score.batch", func(c map[string]interface{}) (pipeline.Node, error) {
		name := conv.ConfigGet(c, "model", "")
		if name == "" {
			return nil, fmt.Errorf("score.batch: model is required")
		}
		s := scorer.NewLocalScorer(reg, name,
			scorer.WithModelVersion(conv.ConfigGet(c, "version", "")),
			scorer.WithArity(int(conv.ConfigGetInt64(c, "arity", scorer.DefaultArity))),
			scorer.WithThreshold(conv.ConfigGetFloat64(c, "threshold", 0.5)),
			scorer.WithMalformedPolicy(scorer.MalformedPolicy(
				conv.ConfigGet(c, "malformed_policy", string(scorer.PolicyAbort)))),
		)
		return &scorer.ScoreNode{Scorer: s}, nil
	})
}

// BuildPipelineFromFile 从声明式配置文件组装 Node 链。
// 按扩展名选择解析器：.json 走 JSON，其余走 YAML。
func BuildPipelineFromFile(path string, f *pipeline.NodeFactory) (*pipeline.Pipeline, error) {
	var (
		cfg *pipeline.Config
		err error
	)
	if strings.HasSuffix(path, ".json") {
		cfg, err = pipeline.LoadFromJSON(path)
	} else {
		cfg, err = pipeline.LoadFromYAML(path)
	}
	if err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(f)
}
