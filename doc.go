// Package scorekit 是一个批量打分工具包（Batch Scoring Kit）。
//
// 设计要点：
// - 契约优先: 打分器遵循严格的两阶段契约（Init 一次载入模型 → ProcessBatch 处理任意多个 mini-batch）
// - Pipeline-first: 打分前后的处理通过 Node 串联（Enrich → Score → Filter）
// - 可编排: 编排器把暂存输入切成 mini-batch 并发分发，失败计数超阈值则终止作业
package scorekit

import "github.com/rushteam/scorekit/pipeline"

// 轻量 facade：便于用户直接 import "scorekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindEnrich = pipeline.KindEnrich
	KindScore  = pipeline.KindScore
	KindFilter = pipeline.KindFilter
)
