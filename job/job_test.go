package job

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/store"
)

func TestJob_Lifecycle(t *testing.T) {
	ctx := context.Background()
	j := NewJob("demo")

	if j.ID == "" {
		t.Fatal("job ID should be assigned")
	}
	if got := j.State(); got != StatePending {
		t.Fatalf("initial state = %q, want %q", got, StatePending)
	}

	if err := j.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := j.State(); got != StateRunning {
		t.Fatalf("state = %q, want %q", got, StateRunning)
	}

	if err := j.Succeed(ctx); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	if got := j.State(); got != StateSucceeded {
		t.Fatalf("state = %q, want %q", got, StateSucceeded)
	}

	// 终态不允许再流转
	if err := j.Run(ctx); err == nil {
		t.Error("Run on succeeded job should error")
	}
}

func TestJob_FailFromPending(t *testing.T) {
	ctx := context.Background()
	j := NewJob("demo")

	wantErr := errors.New("boom")
	if err := j.Fail(ctx, wantErr); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if got := j.State(); got != StateFailed {
		t.Fatalf("state = %q, want %q", got, StateFailed)
	}
	if !errors.Is(j.Err(), wantErr) {
		t.Errorf("Err = %v, want %v", j.Err(), wantErr)
	}
}

func TestJob_Counters(t *testing.T) {
	j := NewJob("demo")

	j.AddScored(3)
	j.AddScored(2)
	if got := j.Scored(); got != 5 {
		t.Errorf("scored = %d, want 5", got)
	}

	if got := j.AddFailed(4); got != 4 {
		t.Errorf("AddFailed = %d, want 4", got)
	}
	if got := j.Failed(); got != 4 {
		t.Errorf("failed = %d, want 4", got)
	}
}

func TestJob_Snapshot(t *testing.T) {
	ctx := context.Background()
	j := NewJob("demo")
	if err := j.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	j.AddScored(7)
	_ = j.Fail(ctx, errors.New("boom"))

	s := j.Snapshot()
	if s.ID != j.ID || s.Name != "demo" {
		t.Errorf("snapshot identity = %+v", s)
	}
	if s.State != StateFailed {
		t.Errorf("snapshot state = %q, want %q", s.State, StateFailed)
	}
	if s.Scored != 7 {
		t.Errorf("snapshot scored = %d, want 7", s.Scored)
	}
	if s.Error == "" {
		t.Error("snapshot of failed job should carry error")
	}
}

func TestStoreCollector_RoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	c := NewStoreCollector(s, "results/j1.txt")

	if err := c.Append(ctx, core.Result{ItemID: "7.csv", Label: "1"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.Append(ctx, core.Result{ItemID: "3.csv", Label: "0"}, core.Result{ItemID: "5.csv", Label: "1"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// 空追加是 no-op
	if err := c.Append(ctx); err != nil {
		t.Fatalf("empty Append: %v", err)
	}

	results, err := c.Results(ctx)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	want := []string{"7.csv: 1", "3.csv: 0", "5.csv: 1"}
	if len(results) != len(want) {
		t.Fatalf("results = %d, want %d", len(results), len(want))
	}
	for i, r := range results {
		if r.Line() != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, r.Line(), want[i])
		}
	}
}

func TestManager(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	// 无输入的作业立即成功，便于确定性断言
	m := NewManager(newNoopOrchestrator(s), s, "results/", nil)

	j, err := m.CreateJob(ctx, "demo")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	got, err := m.GetJob(ctx, j.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.ID != j.ID {
		t.Errorf("GetJob ID = %q, want %q", got.ID, j.ID)
	}

	if _, err := m.GetJob(ctx, "missing"); !core.IsNotFound(err) {
		t.Errorf("GetJob missing = %v, want NOT_FOUND", err)
	}
	if _, err := m.Results(ctx, "missing"); !core.IsNotFound(err) {
		t.Errorf("Results missing = %v, want NOT_FOUND", err)
	}

	if _, err := m.Results(ctx, j.ID); err != nil {
		t.Errorf("Results: %v", err)
	}
}

func newNoopOrchestrator(s core.Store) *Orchestrator {
	factory := func() (core.BatchScorer, error) { return &noopScorer{}, nil }
	return NewOrchestrator(s, "inputs/", factory, WithWorkers(1))
}

type noopScorer struct{}

func (n *noopScorer) Init(ctx context.Context) error { return nil }

func (n *noopScorer) ProcessBatch(ctx context.Context, items []*core.Item) (*core.BatchResult, error) {
	return &core.BatchResult{}, nil
}
