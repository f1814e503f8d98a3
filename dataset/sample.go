package dataset

import "math/rand"

// Sample 从源数据集中无放回随机抽取 n 行。
// seed 固定时结果确定（便于复现打分作业的输入集）；
// n 大于总行数时返回全部行。
func Sample(records []*Record, n int, seed int64) []*Record {
	if n >= len(records) {
		out := make([]*Record, len(records))
		copy(out, records)
		return out
	}
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(records))

	out := make([]*Record, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, records[idx])
	}
	return out
}
