package job

import (
	"context"
	"fmt"
	"path"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/pipeline"
	"github.com/rushteam/scorekit/scorer"
)

// ScorerFactory 为每个 worker 构造一个独立的批量打分器。
// worker 各自持有实例并各自 Init 一次（init-once / process-many 契约）。
type ScorerFactory func() (core.BatchScorer, error)

// Orchestrator 是批量打分作业的编排器：
//   - 按前缀枚举暂存的输入文件，切分为固定大小的 mini-batch
//   - 用 errgroup 把 mini-batch 分发给 W 个 worker 并发处理
//   - 每个 worker 独立初始化打分器，对每个批次跑一条 Node 链
//     （preNodes → ScoreNode → postNodes），结果行追加到收集器
//   - 跨作业累计 item 失败数，超过阈值则取消并使作业失败
//
// 单个批次内输出顺序等于输入顺序；跨批次/worker 只保证追加语义。
type Orchestrator struct {
	store       core.Store
	inputPrefix string
	newScorer   ScorerFactory

	modelName    string
	modelVersion string
	preNodes     []pipeline.Node
	postNodes    []pipeline.Node

	batchSize      int
	workers        int
	errorThreshold int64 // -1 表示不限制
	logger         *zap.SugaredLogger
}

// NewOrchestrator 创建编排器。
func NewOrchestrator(store core.Store, inputPrefix string, newScorer ScorerFactory, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:          store,
		inputPrefix:    inputPrefix,
		newScorer:      newScorer,
		batchSize:      10,
		workers:        4,
		errorThreshold: -1,
		logger:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OrchestratorOption 编排器配置选项
type OrchestratorOption func(*Orchestrator)

// WithBatchSize 设置 mini-batch 大小（默认 10）
func WithBatchSize(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithWorkers 设置并发 worker 数（默认 4）
func WithWorkers(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithErrorThreshold 设置作业级 item 失败阈值；-1 表示不限制（默认）
func WithErrorThreshold(n int64) OrchestratorOption {
	return func(o *Orchestrator) {
		o.errorThreshold = n
	}
}

// WithModelInfo 设置模型信息（透传到 ScoreContext，供标签/过滤使用）
func WithModelInfo(name, version string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.modelName = name
		o.modelVersion = version
	}
}

// WithPreNodes 设置打分前的 Node 链（如 feature.enrich）
func WithPreNodes(nodes ...pipeline.Node) OrchestratorOption {
	return func(o *Orchestrator) {
		o.preNodes = nodes
	}
}

// WithPostNodes 设置打分后的 Node 链（如 filter.expr）
func WithPostNodes(nodes ...pipeline.Node) OrchestratorOption {
	return func(o *Orchestrator) {
		o.postNodes = nodes
	}
}

// WithLogger 设置日志（默认 no-op）
func WithLogger(logger *zap.SugaredLogger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run 执行整个作业：状态流转 + 分发 + 收集。阻塞直到作业结束。
func (o *Orchestrator) Run(ctx context.Context, j *Job, collector Collector) error {
	if err := j.Run(ctx); err != nil {
		return fmt.Errorf("job %s: %w", j.ID, err)
	}

	if err := o.run(ctx, j, collector); err != nil {
		o.logger.Errorw("job failed", "job_id", j.ID, "error", err)
		_ = j.Fail(ctx, err)
		return err
	}

	o.logger.Infow("job succeeded", "job_id", j.ID, "scored", j.Scored(), "failed", j.Failed())
	return j.Succeed(ctx)
}

func (o *Orchestrator) run(ctx context.Context, j *Job, collector Collector) error {
	keys, err := o.store.List(ctx, o.inputPrefix)
	if err != nil {
		return fmt.Errorf("list inputs %q: %w", o.inputPrefix, err)
	}
	batches := Partition(keys, o.batchSize)

	o.logger.Infow("job started",
		"job_id", j.ID, "items", len(keys), "batches", len(batches), "workers", o.workers)

	var failed atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	batchCh := make(chan []string)

	eg.Go(func() error {
		defer close(batchCh)
		for _, b := range batches {
			select {
			case batchCh <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < o.workers; w++ {
		eg.Go(func() error {
			return o.runWorker(ctx, j, collector, batchCh, &failed)
		})
	}

	return eg.Wait()
}

// runWorker 是单个 worker 的生命周期：构造打分器并初始化一次，然后循环处理批次。
func (o *Orchestrator) runWorker(
	ctx context.Context,
	j *Job,
	collector Collector,
	batchCh <-chan []string,
	failed *atomic.Int64,
) error {
	s, err := o.newScorer()
	if err != nil {
		return fmt.Errorf("create scorer: %w", err)
	}
	// 模型载入失败对 worker 是致命的，直接使整个作业失败
	if err := s.Init(ctx); err != nil {
		return fmt.Errorf("init scorer: %w", err)
	}

	nodes := make([]pipeline.Node, 0, len(o.preNodes)+1+len(o.postNodes))
	nodes = append(nodes, o.preNodes...)
	nodes = append(nodes, &scorer.ScoreNode{Scorer: s})
	nodes = append(nodes, o.postNodes...)
	p := &pipeline.Pipeline{Nodes: nodes}

	for batch := range batchCh {
		if err := o.runBatch(ctx, j, collector, p, batch, failed); err != nil {
			return err
		}
	}
	return nil
}

// runBatch 处理一个 mini-batch。批次内部的失败不直接终止作业，
// 而是计入累计失败数；超过阈值才返回 THRESHOLD_EXCEEDED。
func (o *Orchestrator) runBatch(
	ctx context.Context,
	j *Job,
	collector Collector,
	p *pipeline.Pipeline,
	batch []string,
	failed *atomic.Int64,
) error {
	sctx := &core.ScoreContext{
		JobID:        j.ID,
		ModelName:    o.modelName,
		ModelVersion: o.modelVersion,
	}

	items, err := o.loadItems(ctx, batch)
	if err == nil {
		var out []*core.Item
		out, err = p.Run(ctx, sctx, items)
		if err == nil {
			if n := int64(len(sctx.Failures)); n > 0 {
				for _, f := range sctx.Failures {
					o.logger.Warnw("item skipped", "job_id", j.ID, "item", f.ItemID, "error", f.Err)
				}
				if thresholdErr := o.addFailures(j, failed, n); thresholdErr != nil {
					return thresholdErr
				}
			}

			results := make([]core.Result, 0, len(out))
			for _, it := range out {
				results = append(results, core.Result{ItemID: it.ID, Label: it.Label, Score: it.Score})
			}
			if err := collector.Append(ctx, results...); err != nil {
				return err
			}
			j.AddScored(int64(len(results)))
			return nil
		}
	}

	// 取消/超时直接向上传播，不计入失败
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// mini-batch 中止（abort 策略的坏行、载入失败等）：本批全部 item 计入失败
	o.logger.Warnw("batch aborted", "job_id", j.ID, "items", len(batch), "error", err)
	return o.addFailures(j, failed, int64(len(batch)))
}

// addFailures 累计失败数并检查阈值；超过阈值返回 THRESHOLD_EXCEEDED。
func (o *Orchestrator) addFailures(j *Job, failed *atomic.Int64, n int64) error {
	j.AddFailed(n)
	total := failed.Add(n)
	if o.errorThreshold >= 0 && total > o.errorThreshold {
		return core.NewDomainError(core.ModuleJob, core.ErrorCodeThresholdExceeded,
			fmt.Sprintf("job: %d item failures exceed threshold %d", total, o.errorThreshold))
	}
	return nil
}

// loadItems 按 key 顺序装载一个 mini-batch 的输入文件。
func (o *Orchestrator) loadItems(ctx context.Context, keys []string) ([]*core.Item, error) {
	kvs, err := o.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	items := make([]*core.Item, 0, len(keys))
	for _, key := range keys {
		raw, ok := kvs[key]
		if !ok {
			return nil, core.NewDomainError(core.ModuleJob, core.ErrorCodeNotFound,
				fmt.Sprintf("job: input %s disappeared during run", key))
		}
		it := core.NewItem(path.Base(key))
		it.Raw = raw
		items = append(items, it)
	}
	return items, nil
}

// Partition 把输入 key 切分为大小不超过 size 的有序 mini-batch。
func Partition(keys []string, size int) [][]string {
	if size <= 0 || len(keys) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		batches = append(batches, keys[start:end])
	}
	return batches
}
