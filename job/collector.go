package job

import (
	"context"
	"fmt"

	"github.com/rushteam/scorekit/core"
)

// Collector 是结果收集接口：worker 把每个 mini-batch 的结果行追加到
// 共享输出产物，追加顺序跨批次不作保证（append 语义）。
type Collector interface {
	// Append 追加若干结果行
	Append(ctx context.Context, results ...core.Result) error

	// Results 读取并解析当前全部结果行
	Results(ctx context.Context) ([]core.Result, error)
}

// StoreCollector 是基于 core.AppendStore 的收集器实现：
// 每个结果占一行，格式 `<文件名>: <标签>`，与打分器的结果行一致。
type StoreCollector struct {
	store core.AppendStore
	key   string
}

func NewStoreCollector(s core.AppendStore, key string) *StoreCollector {
	return &StoreCollector{store: s, key: key}
}

// Key 返回输出产物的 key。
func (c *StoreCollector) Key() string { return c.key }

func (c *StoreCollector) Append(ctx context.Context, results ...core.Result) error {
	if len(results) == 0 {
		return nil
	}
	lines := make([][]byte, 0, len(results))
	for _, r := range results {
		lines = append(lines, []byte(r.Line()))
	}
	if err := c.store.Append(ctx, c.key, lines...); err != nil {
		return fmt.Errorf("collector: append results: %w", err)
	}
	return nil
}

func (c *StoreCollector) Results(ctx context.Context) ([]core.Result, error) {
	lines, err := c.store.Range(ctx, c.key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("collector: read results: %w", err)
	}

	results := make([]core.Result, 0, len(lines))
	for _, line := range lines {
		r, err := core.ParseResultLine(string(line))
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

var _ Collector = (*StoreCollector)(nil)
