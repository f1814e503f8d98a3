package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/scorekit/core"
)

// Stager 把抽样后的行暂存为“每行一个文件”的打分输入：
// 文件名为 "<序号>.csv"，内容是一行逗号分隔的特征向量（无表头、无标签）。
// 编排器按前缀枚举这些文件并切分 mini-batch。
type Stager struct {
	store  core.Store
	prefix string
}

func NewStager(s core.Store, prefix string) *Stager {
	return &Stager{store: s, prefix: prefix}
}

// Prefix 返回暂存前缀（编排器枚举输入用）。
func (s *Stager) Prefix() string { return s.prefix }

// Stage 写入每行一个文件，返回写入的 key 列表（含前缀，按序号排列）。
func (s *Stager) Stage(ctx context.Context, records []*Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	kvs := make(map[string][]byte, len(records))
	keys := make([]string, 0, len(records))
	for i, r := range records {
		key := s.prefix + strconv.Itoa(i) + ".csv"
		kvs[key] = []byte(FormatVector(r.Features()))
		keys = append(keys, key)
	}

	if err := s.store.BatchSet(ctx, kvs); err != nil {
		return nil, fmt.Errorf("dataset: stage inputs: %w", err)
	}
	return keys, nil
}

// FormatVector 把特征向量格式化为一行逗号分隔的数值（Stage 的写入格式，
// 也是打分器 ParseFeatures 的解析格式）。
func FormatVector(features []float64) string {
	fields := make([]string, len(features))
	for i, v := range features {
		fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(fields, ",")
}
