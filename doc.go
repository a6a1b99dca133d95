// Package careerkit 是一个职位推荐工具包（Career Kit）。
//
// 设计要点：
// - Pipeline-first: 预测逻辑通过 Node 串联（Encode → Infer → Rank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地工件或远程推理服务均可）
package careerkit

import "github.com/rushteam/careerkit/pipeline"

// 轻量 facade：便于用户直接 import "careerkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindEncode      = pipeline.KindEncode
	KindInfer       = pipeline.KindInfer
	KindRank        = pipeline.KindRank
	KindPostProcess = pipeline.KindPostProcess
)
