package job

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rushteam/scorekit/core"
)

// Manager 维护作业的提交与查询：每次提交创建一个新作业，
// 异步执行编排器，输出产物按作业 ID 隔离。
// REST 网关通过 Manager 触发与检索作业。
type Manager struct {
	orch         *Orchestrator
	store        core.AppendStore
	outputPrefix string
	logger       *zap.SugaredLogger

	mu         sync.RWMutex
	jobs       map[string]*Job
	collectors map[string]Collector
}

// NewManager 创建作业管理器。outputPrefix 是输出产物的 key 前缀。
func NewManager(orch *Orchestrator, store core.AppendStore, outputPrefix string, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{
		orch:         orch,
		store:        store,
		outputPrefix: outputPrefix,
		logger:       logger,
		jobs:         make(map[string]*Job),
		collectors:   make(map[string]Collector),
	}
}

// CreateJob 创建并异步启动一个作业，立即返回作业句柄。
func (m *Manager) CreateJob(ctx context.Context, name string) (*Job, error) {
	j := NewJob(name)
	c := NewStoreCollector(m.store, m.outputPrefix+j.ID+".txt")

	m.mu.Lock()
	m.jobs[j.ID] = j
	m.collectors[j.ID] = c
	m.mu.Unlock()

	go func() {
		// 作业生命周期独立于触发请求
		if err := m.orch.Run(context.Background(), j, c); err != nil {
			m.logger.Errorw("job run failed", "job_id", j.ID, "error", err)
		}
	}()

	return j, nil
}

// GetJob 按 ID 查询作业。
func (m *Manager) GetJob(ctx context.Context, id string) (*Job, error) {
	m.mu.RLock()
	j, ok := m.jobs[id]
	m.mu.RUnlock()

	if !ok {
		return nil, core.NewDomainError(core.ModuleJob, core.ErrorCodeNotFound,
			fmt.Sprintf("job: %q not found", id))
	}
	return j, nil
}

// Results 读取作业当前已收集的结果。
func (m *Manager) Results(ctx context.Context, id string) ([]core.Result, error) {
	m.mu.RLock()
	c, ok := m.collectors[id]
	m.mu.RUnlock()

	if !ok {
		return nil, core.NewDomainError(core.ModuleJob, core.ErrorCodeNotFound,
			fmt.Sprintf("job: %q not found", id))
	}
	return c.Results(ctx)
}
