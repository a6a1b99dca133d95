package feature

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/feast"
	"github.com/rushteam/careerkit/pkg/conv"
)

// SkillEnricher 在编码前补全档案的技能评分：当档案没有自评技能时，
// 从 Feast 在线特征存储拉取 {FeatureView}:{skill} 特征填入。
//
// 补全是尽力而为的：特征服务不可用或特征缺失只记录日志并跳过，
// 预测仍以空技能向量继续（缺失技能维度为 0.0，见 ProfileEncoder）。
type SkillEnricher struct {
	Client feast.Client

	// FeatureView 技能特征视图名，特征名为 "{FeatureView}:{skill}"
	FeatureView string

	// EntityKey 实体键名（如 "user_id"）
	EntityKey string

	// SkillFields 闭合技能词表（与编码器一致）
	SkillFields []string

	Logger *slog.Logger
}

// NewSkillEnricher 创建技能补全器。
func NewSkillEnricher(client feast.Client, featureView string, skillFields []string) *SkillEnricher {
	return &SkillEnricher{
		Client:      client,
		FeatureView: featureView,
		EntityKey:   "user_id",
		SkillFields: skillFields,
		Logger:      slog.Default(),
	}
}

// Enrich 为档案补全技能评分。已有自评技能的档案原样返回。
func (s *SkillEnricher) Enrich(ctx context.Context, userID string, p *core.Profile) {
	if s == nil || s.Client == nil || p == nil || len(p.Skills) > 0 {
		return
	}

	features := make([]string, 0, len(s.SkillFields))
	for _, skill := range s.SkillFields {
		features = append(features, fmt.Sprintf("%s:%s", s.FeatureView, skill))
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: []map[string]any{{s.EntityKey: userID}},
	})
	if err != nil {
		s.logger().Warn("skill enrichment skipped", "user_id", userID, "err", err)
		return
	}
	if len(resp.FeatureVectors) == 0 {
		return
	}

	values := resp.FeatureVectors[0].Values
	skills := make(map[string]float64, len(s.SkillFields))
	for i, skill := range s.SkillFields {
		v, ok := values[features[i]]
		if !ok {
			continue
		}
		if rating, ok := conv.ToFloat64(v); ok {
			skills[skill] = rating
		}
	}
	if len(skills) > 0 {
		p.Skills = skills
	}
}

func (s *SkillEnricher) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
