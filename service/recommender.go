// Package service 组装各层组件，对外提供职位推荐的统一门面。
//
// 边界约定：
//   - 校验失败与领域错误原样返回（含结构化字段错误）
//   - 其他内部故障记录详细日志后，对外只暴露不含内部细节的通用错误
package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/feature"
	"github.com/rushteam/careerkit/insight"
	"github.com/rushteam/careerkit/pipeline"
)

// Recommendation 是一次预测的完整结果。
type Recommendation struct {
	// TopRecommendation 首位推荐（主推荐）
	TopRecommendation core.RolePrediction `json:"top_recommendation"`

	// Alternatives 其余推荐（备选），按 Confidence 降序
	Alternatives []core.RolePrediction `json:"alternatives"`

	// AllPredictions 全部 Top-K 推荐（含首位），按 Confidence 降序
	AllPredictions []core.RolePrediction `json:"all_predictions"`

	// Flagged 本次预测是否因低置信度被标记待复核
	Flagged bool `json:"flagged"`

	// Timestamp 本次预测的记账时间
	Timestamp string `json:"timestamp"`
}

// Report 是 Recommend 的组合结果：预测 + 同缘洞察。
type Report struct {
	Recommendation *Recommendation `json:"recommendation"`
	Insight        *insight.Result `json:"insight"`
}

// Recommender 是推荐服务门面：编码、推理排序、记账、洞察。
type Recommender struct {
	// Encoder 档案编码器
	Encoder *feature.ProfileEncoder

	// Enricher 可选的技能特征补全（Feast），nil 表示不启用
	Enricher *feature.SkillEnricher

	// Pipeline 推理 + 排序链
	Pipeline *pipeline.Pipeline

	// History 预测历史账本
	History core.HistoryStore

	// Insights 同缘洞察引擎
	Insights *insight.Engine

	Logger *slog.Logger

	// Now 记账时钟，nil 时取 time.Now；测试中可注入固定时钟
	Now func() time.Time
}

// Predict 对候选人档案执行一次完整预测并记账。
//
// 流程：必填校验 -> （可选）技能补全 -> 编码 -> Pipeline ->
// 按 (用户, 输入指纹) 幂等写入账本 -> 返回首位推荐与备选。
//
// 重复提交同一档案会原地覆盖既有条目（时间戳刷新），不产生重复历史。
func (r *Recommender) Predict(ctx context.Context, userID string, p *core.Profile) (*Recommendation, error) {
	if r.Enricher != nil {
		r.Enricher.Enrich(ctx, userID, p)
	}

	text, _, err := r.Encoder.Encode(p)
	if err != nil {
		return nil, err
	}

	pctx := &core.PredictContext{
		UserID:  userID,
		Profile: p,
		Text:    text,
	}
	items, err := r.Pipeline.Run(ctx, pctx, nil)
	if err != nil {
		return nil, r.internal("pipeline failed", userID, err)
	}
	if len(items) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: pipeline produced no candidates")
	}

	predictions := make([]core.RolePrediction, 0, len(items))
	for _, item := range items {
		predictions = append(predictions, core.RolePrediction{
			Role:       item.Role,
			Confidence: item.Confidence,
		})
	}

	entry := &core.PredictionEntry{
		UserID:      userID,
		Input:       p.Fingerprint(),
		Predictions: predictions,
		Timestamp:   r.now().Format(core.TimestampLayout),
	}
	flagged, err := r.History.Upsert(ctx, entry)
	if err != nil {
		return nil, r.internal("history upsert failed", userID, err)
	}

	return &Recommendation{
		TopRecommendation: predictions[0],
		Alternatives:      predictions[1:],
		AllPredictions:    predictions,
		Flagged:           flagged,
		Timestamp:         entry.Timestamp,
	}, nil
}

// Recommend 同时产出预测与同缘洞察（errgroup 并发执行）。
// 洞察基于静态语料，与预测无共享状态，可安全并行。
func (r *Recommender) Recommend(ctx context.Context, userID string, p *core.Profile) (*Report, error) {
	report := &Report{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := r.Predict(gctx, userID, p)
		if err != nil {
			return err
		}
		report.Recommendation = rec
		return nil
	})
	g.Go(func() error {
		// Insight 永不失败：语料缺失时降级为占位消息
		report.Insight = r.Insights.Insight(p.Degree)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// History 返回指定用户的全部历史条目，按记账顺序。
func (r *Recommender) HistoryForUser(ctx context.Context, userID string) ([]*core.PredictionEntry, error) {
	rows, err := r.History.ListForUser(ctx, userID)
	if err != nil {
		return nil, r.internal("history read failed", userID, err)
	}
	return rows, nil
}

// Latest 返回指定用户最近一次预测；无记录时返回 ErrEntryNotFound。
func (r *Recommender) Latest(ctx context.Context, userID string) (*core.PredictionEntry, error) {
	entry, err := r.History.Latest(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, err
		}
		return nil, r.internal("history read failed", userID, err)
	}
	return entry, nil
}

// Insight 返回指定学历背景的同缘洞察。
func (r *Recommender) Insight(degree string) *insight.Result {
	return r.Insights.Insight(degree)
}

// RoleFrequency 返回全量账本首位推荐职位的频次直方图。
func (r *Recommender) RoleFrequency(ctx context.Context) (map[string]int, error) {
	freq, err := r.History.RoleFrequency(ctx)
	if err != nil {
		return nil, r.internal("history aggregate failed", "", err)
	}
	return freq, nil
}

// RoleShare 返回全量账本首位推荐职位的占比（0-100）。
func (r *Recommender) RoleShare(ctx context.Context) (map[string]float64, error) {
	share, err := r.History.RoleShare(ctx)
	if err != nil {
		return nil, r.internal("history aggregate failed", "", err)
	}
	return share, nil
}

// Close 释放底层资源。
func (r *Recommender) Close() error {
	return r.History.Close()
}

// internal 记录内部故障并映射为不含内部细节的通用错误；
// 已是领域错误的原样透传。
func (r *Recommender) internal(msg, userID string, err error) error {
	if core.GetDomainError(err) != nil {
		return err
	}
	r.logger().Error(msg, "user_id", userID, "err", err)
	return core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError,
		"service: internal error")
}

func (r *Recommender) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Recommender) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
