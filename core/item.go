package core

import (
	"fmt"
	"strings"

	"github.com/rushteam/scorekit/pkg/utils"
)

// Item 是打分链路中的统一承载结构：一个输入文件对应一个待预测对象。
// ID 是文件名；Raw 是文件原始内容（一行逗号分隔的特征向量）。
// Features 是解析/补全后的定宽特征向量；Label 是预测出的类别标签。
type Item struct {
	ID       string // 输入文件名，如 "7.csv"
	Raw      []byte // 原始文件内容
	Features []float64
	Score    float64 // 模型原始输出（如概率）
	Label    string  // 预测标签（如 "0" / "1"）
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}

// ResultSeparator 是结果行中文件名与预测标签之间的字面分隔符。
const ResultSeparator = ": "

// Result 是一个 Item 的打分结果：文件名 + 预测标签。
// Score 是模型原始输出，仅供过滤/观测使用，不进入结果行。
type Result struct {
	ItemID string  `json:"item_id"`
	Label  string  `json:"label"`
	Score  float64 `json:"score,omitempty"`
}

// Line 按 `<文件名>: <标签>` 的格式输出结果行。
func (r Result) Line() string {
	return r.ItemID + ResultSeparator + r.Label
}

// ParseResultLine 解析一条结果行（Line 的逆操作）。
func ParseResultLine(line string) (Result, error) {
	line = strings.TrimRight(line, "\r\n")
	idx := strings.Index(line, ResultSeparator)
	if idx < 0 {
		return Result{}, NewDomainError(ModuleJob, ErrorCodeInvalidInput,
			fmt.Sprintf("result: malformed line %q", line))
	}
	return Result{
		ItemID: line[:idx],
		Label:  line[idx+len(ResultSeparator):],
	}, nil
}
