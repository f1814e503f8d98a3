package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Job 状态
const (
	StatePending   = "pending"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// Job 事件
const (
	EventRun     = "run"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// Job 是一次批量打分作业的句柄：唯一 ID、生命周期状态机、计数与最终错误。
// 状态流转：pending → running → succeeded / failed。
type Job struct {
	ID        string
	Name      string
	FSM       *fsm.FSM
	CreatedAt time.Time

	mu        sync.RWMutex
	updatedAt time.Time
	err       error
	scored    int64
	failed    int64
}

// NewJob 创建一个待运行的作业。
func NewJob(name string) *Job {
	now := time.Now()
	j := &Job{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		updatedAt: now,
	}

	// 初始化生命周期状态机
	j.FSM = fsm.NewFSM(
		StatePending,
		fsm.Events{
			{Name: EventRun, Src: []string{StatePending}, Dst: StateRunning},
			{Name: EventSucceed, Src: []string{StateRunning}, Dst: StateSucceeded},
			{Name: EventFail, Src: []string{StatePending, StateRunning}, Dst: StateFailed},
		},
		fsm.Callbacks{
			EventRun: func(ctx context.Context, e *fsm.Event) {
				j.touch()
			},
			EventSucceed: func(ctx context.Context, e *fsm.Event) {
				j.touch()
			},
			EventFail: func(ctx context.Context, e *fsm.Event) {
				j.touch()
			},
		},
	)

	return j
}

// Run 进入运行态。
func (j *Job) Run(ctx context.Context) error {
	return j.FSM.Event(ctx, EventRun)
}

// Succeed 标记成功完成。
func (j *Job) Succeed(ctx context.Context) error {
	return j.FSM.Event(ctx, EventSucceed)
}

// Fail 标记失败并记录最终错误。
func (j *Job) Fail(ctx context.Context, err error) error {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	return j.FSM.Event(ctx, EventFail)
}

// State 返回当前状态。
func (j *Job) State() string {
	return j.FSM.Current()
}

// Err 返回失败作业的最终错误（未失败时为 nil）。
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// AddScored 累加成功打分的 item 数。
func (j *Job) AddScored(n int64) {
	j.mu.Lock()
	j.scored += n
	j.updatedAt = time.Now()
	j.mu.Unlock()
}

// AddFailed 累加失败的 item 数，返回累加后的总数。
func (j *Job) AddFailed(n int64) int64 {
	j.mu.Lock()
	j.failed += n
	j.updatedAt = time.Now()
	total := j.failed
	j.mu.Unlock()
	return total
}

// Scored 返回成功打分的 item 数。
func (j *Job) Scored() int64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.scored
}

// Failed 返回失败的 item 数。
func (j *Job) Failed() int64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.failed
}

// Status 是作业状态的只读快照（REST 返回体）。
type Status struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	Scored    int64     `json:"scored"`
	Failed    int64     `json:"failed"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot 返回当前状态快照。
func (j *Job) Snapshot() Status {
	// 先读 FSM 状态再取 j.mu，避免与事件回调形成锁序交叉
	state := j.FSM.Current()

	j.mu.RLock()
	defer j.mu.RUnlock()

	s := Status{
		ID:        j.ID,
		Name:      j.Name,
		State:     state,
		Scored:    j.scored,
		Failed:    j.failed,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.updatedAt,
	}
	if j.err != nil {
		s.Error = j.err.Error()
	}
	return s
}

func (j *Job) touch() {
	j.mu.Lock()
	j.updatedAt = time.Now()
	j.mu.Unlock()
}
