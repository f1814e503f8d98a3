// Package config 负责作业配置的加载与组装：
// 从 YAML 读取 JobConfig，校验后用工厂组装出可运行的作业管理器。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/scorekit/scorer"
)

// JobConfig 是一次批量打分作业的完整配置。
type JobConfig struct {
	Job struct {
		Name string `yaml:"name"`
	} `yaml:"job"`

	Model struct {
		Name      string  `yaml:"name"`
		Version   string  `yaml:"version"`   // 空表示最新版本
		Format    string  `yaml:"format"`    // 工件格式，如 "logreg"
		Threshold float64 `yaml:"threshold"` // 正类判定阈值，0 表示默认 0.5
	} `yaml:"model"`

	Input struct {
		Prefix     string `yaml:"prefix"`      // 暂存输入文件的 key 前缀
		SampleSize int    `yaml:"sample_size"` // 0 表示不抽样
		Seed       int64  `yaml:"seed"`
	} `yaml:"input"`

	Scoring struct {
		MiniBatchSize int `yaml:"mini_batch_size"`
		Workers       int `yaml:"workers"`

		// ErrorThreshold 作业级 item 失败阈值。指针区分“未配置”（默认不限制）
		// 与显式的 0（首个失败即终止）；-1 表示不限制。
		ErrorThreshold *int64 `yaml:"error_threshold"`

		MalformedPolicy string `yaml:"malformed_policy"`
		Filter          string `yaml:"filter"` // CEL 表达式，空表示不过滤
	} `yaml:"scoring"`

	Enrich struct {
		Enabled   bool     `yaml:"enabled"`
		Host      string   `yaml:"host"`
		Port      int      `yaml:"port"`
		Project   string   `yaml:"project"`
		EntityKey string   `yaml:"entity_key"`
		Features  []string `yaml:"features"`
	} `yaml:"enrich"`

	Output struct {
		Prefix string `yaml:"prefix"` // 输出产物的 key 前缀
	} `yaml:"output"`

	Store struct {
		Type string `yaml:"type"` // memory / redis
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"store"`
}

// Load 从 YAML 文件加载作业配置并填充默认值。
func Load(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg JobConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults 填充未设置项的默认值。
func (c *JobConfig) ApplyDefaults() {
	if c.Job.Name == "" {
		c.Job.Name = "batch-scoring"
	}
	if c.Model.Format == "" {
		c.Model.Format = "logreg"
	}
	if c.Model.Threshold == 0 {
		c.Model.Threshold = 0.5
	}
	if c.Input.Prefix == "" {
		c.Input.Prefix = "inputs/"
	}
	if c.Scoring.MiniBatchSize == 0 {
		c.Scoring.MiniBatchSize = 10
	}
	if c.Scoring.Workers == 0 {
		c.Scoring.Workers = 4
	}
	if c.Scoring.ErrorThreshold == nil {
		unlimited := int64(-1)
		c.Scoring.ErrorThreshold = &unlimited
	}
	if c.Scoring.MalformedPolicy == "" {
		c.Scoring.MalformedPolicy = string(scorer.PolicyAbort)
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = "results/"
	}
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
}

// Validate 校验配置的一致性。
func (c *JobConfig) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("config: model.name is required")
	}
	switch scorer.MalformedPolicy(c.Scoring.MalformedPolicy) {
	case scorer.PolicyAbort, scorer.PolicySkip:
	default:
		return fmt.Errorf("config: unknown malformed_policy %q", c.Scoring.MalformedPolicy)
	}
	switch c.Store.Type {
	case "memory":
	case "redis":
		if c.Store.Addr == "" {
			return fmt.Errorf("config: store.addr is required for redis")
		}
	default:
		return fmt.Errorf("config: unknown store type %q", c.Store.Type)
	}
	if c.Enrich.Enabled {
		if c.Enrich.Host == "" {
			return fmt.Errorf("config: enrich.host is required when enrich is enabled")
		}
		if len(c.Enrich.Features) == 0 {
			return fmt.Errorf("config: enrich.features is required when enrich is enabled")
		}
	}
	return nil
}
