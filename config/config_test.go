package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/registry"
	"github.com/rushteam/scorekit/scorer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
job:
  name: diabetes-batch
model:
  name: diabetes-clf
  version: "2"
  threshold: 0.7
input:
  prefix: staged/
  sample_size: 100
  seed: 42
scoring:
  mini_batch_size: 5
  workers: 8
  error_threshold: 10
  malformed_policy: skip
  filter: 'item.label == "1"'
output:
  prefix: out/
store:
  type: memory
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Job.Name != "diabetes-batch" {
		t.Errorf("job name = %q", cfg.Job.Name)
	}
	if cfg.Model.Name != "diabetes-clf" || cfg.Model.Version != "2" || cfg.Model.Threshold != 0.7 {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.Input.Prefix != "staged/" || cfg.Input.SampleSize != 100 || cfg.Input.Seed != 42 {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Scoring.MiniBatchSize != 5 || cfg.Scoring.Workers != 8 {
		t.Errorf("scoring = %+v", cfg.Scoring)
	}
	if cfg.Scoring.ErrorThreshold == nil || *cfg.Scoring.ErrorThreshold != 10 {
		t.Errorf("error_threshold = %v, want 10", cfg.Scoring.ErrorThreshold)
	}
	if cfg.Scoring.MalformedPolicy != string(scorer.PolicySkip) {
		t.Errorf("malformed_policy = %q", cfg.Scoring.MalformedPolicy)
	}
	if cfg.Scoring.Filter != `item.label == "1"` {
		t.Errorf("filter = %q", cfg.Scoring.Filter)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
model:
  name: diabetes-clf
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Job.Name != "batch-scoring" {
		t.Errorf("default job name = %q", cfg.Job.Name)
	}
	if cfg.Model.Format != "logreg" || cfg.Model.Threshold != 0.5 {
		t.Errorf("model defaults = %+v", cfg.Model)
	}
	if cfg.Input.Prefix != "inputs/" {
		t.Errorf("default input prefix = %q", cfg.Input.Prefix)
	}
	if cfg.Scoring.MiniBatchSize != 10 || cfg.Scoring.Workers != 4 {
		t.Errorf("scoring defaults = %+v", cfg.Scoring)
	}
	if cfg.Scoring.ErrorThreshold == nil || *cfg.Scoring.ErrorThreshold != -1 {
		t.Errorf("default error_threshold = %v, want -1", cfg.Scoring.ErrorThreshold)
	}
	if cfg.Scoring.MalformedPolicy != string(scorer.PolicyAbort) {
		t.Errorf("default malformed_policy = %q", cfg.Scoring.MalformedPolicy)
	}
	if cfg.Store.Type != "memory" {
		t.Errorf("default store type = %q", cfg.Store.Type)
	}
	if cfg.Output.Prefix != "results/" {
		t.Errorf("default output prefix = %q", cfg.Output.Prefix)
	}
}

func TestLoad_ExplicitZeroThreshold(t *testing.T) {
	// 显式的 0（首个失败即终止）不能被默认值吞掉
	path := writeConfig(t, `
model:
  name: clf
scoring:
  error_threshold: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoring.ErrorThreshold == nil || *cfg.Scoring.ErrorThreshold != 0 {
		t.Errorf("error_threshold = %v, want 0", cfg.Scoring.ErrorThreshold)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing model name",
			content: "job:\n  name: x\n",
		},
		{
			name: "unknown malformed policy",
			content: `
model:
  name: clf
scoring:
  malformed_policy: ignore
`,
		},
		{
			name: "unknown store type",
			content: `
model:
  name: clf
store:
  type: dynamo
`,
		},
		{
			name: "redis without addr",
			content: `
model:
  name: clf
store:
  type: redis
`,
		},
		{
			name: "enrich without host",
			content: `
model:
  name: clf
enrich:
  enabled: true
  features: [glucose]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBuildManager(t *testing.T) {
	cfg := &JobConfig{}
	cfg.Model.Name = "diabetes-clf"
	cfg.ApplyDefaults()

	mgr, s, reg, err := BuildManager(cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("BuildManager: %v", err)
	}
	defer s.Close()

	if mgr == nil || reg == nil {
		t.Fatal("BuildManager returned nil components")
	}
}

func TestBuildScorerFactory(t *testing.T) {
	cfg := &JobConfig{}
	cfg.Model.Name = "clf"
	cfg.ApplyDefaults()

	s, err := BuildStore(cfg)
	if err != nil {
		t.Fatalf("BuildStore: %v", err)
	}
	defer s.Close()

	factory := BuildScorerFactory(cfg, BuildRegistry(s))
	a, err := factory()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	b, err := factory()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if a == b {
		t.Error("factory should return independent scorer instances")
	}
}

func TestBuildPipelineFromFile(t *testing.T) {
	reg := registry.NewMemoryRegistry()
	payload := []byte(`{"bias":100,"weights":[1,1,1,1,1,1,1,1]}`)
	if _, err := reg.Register(context.Background(), "clf", "logreg", payload); err != nil {
		t.Fatalf("register model: %v", err)
	}

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pipeline.yaml")
	pipelineYAML := `
pipeline:
  name: scoring
  nodes:
    - type: score.batch
      config:
        model: clf
        threshold: 0.9
    - type: filter.expr
      config:
        expr: 'item.label == "1"'
`
	if err := os.WriteFile(yamlPath, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatalf("write pipeline yaml: %v", err)
	}

	f := NewNodeFactory()
	RegisterScoreNode(f, reg)

	p, err := BuildPipelineFromFile(yamlPath, f)
	if err != nil {
		t.Fatalf("BuildPipelineFromFile: %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(p.Nodes))
	}

	sn, ok := p.Nodes[0].(*scorer.ScoreNode)
	if !ok {
		t.Fatalf("first node = %T, want *scorer.ScoreNode", p.Nodes[0])
	}
	if err := sn.Scorer.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	it := core.NewItem("7.csv")
	it.Raw = []byte("2,150,85,40,200,35.2,0.5,45")
	out, err := p.Run(context.Background(), &core.ScoreContext{JobID: "j1"}, []*core.Item{it})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || out[0].Label != "1" {
		t.Fatalf("out = %+v, want one item labeled 1", out)
	}
}

func TestBuildPipelineFromFile_JSON(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "pipeline.json")
	pipelineJSON := `{"pipeline":{"name":"scoring","nodes":[{"type":"filter.expr","config":{"expr":"item.score >= 0.5"}}]}}`
	if err := os.WriteFile(jsonPath, []byte(pipelineJSON), 0o644); err != nil {
		t.Fatalf("write pipeline json: %v", err)
	}

	p, err := BuildPipelineFromFile(jsonPath, NewNodeFactory())
	if err != nil {
		t.Fatalf("BuildPipelineFromFile: %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "filter.expr" {
		t.Fatalf("nodes = %v", p.Nodes)
	}
}

func TestNewNodeFactory(t *testing.T) {
	f := NewNodeFactory()

	n, err := f.Build("filter.expr", map[string]interface{}{"expr": `item.label == "1"`})
	if err != nil {
		t.Fatalf("build filter.expr: %v", err)
	}
	if n.Name() != "filter.expr" {
		t.Errorf("node name = %q", n.Name())
	}

	if _, err := f.Build("filter.expr", map[string]interface{}{}); err == nil {
		t.Error("expected error for filter.expr without expr")
	}
	if _, err := f.Build("unknown.node", nil); err == nil {
		t.Error("expected error for unknown node type")
	}
}
