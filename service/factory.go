package service

import (
	"fmt"
	"log/slog"

	"github.com/rushteam/careerkit/config"
	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/feast"
	"github.com/rushteam/careerkit/feature"
	"github.com/rushteam/careerkit/history"
	"github.com/rushteam/careerkit/infer"
	"github.com/rushteam/careerkit/insight"
	"github.com/rushteam/careerkit/model"
	"github.com/rushteam/careerkit/pipeline"
	"github.com/rushteam/careerkit/rank"
	"github.com/rushteam/careerkit/store"
)

// NewRecommender 根据配置组装推荐服务（工厂方法）。
//
// 模型工件加载失败是启动级致命错误（返回 UNAVAILABLE），服务不应
// 以缺失模型的状态对外提供预测；洞察语料缺失则降级为空洞察，不阻断启动。
func NewRecommender(cfg *config.Config, logger *slog.Logger) (*Recommender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	encoder := feature.NewProfileEncoder(
		cfg.Vocab.Degrees,
		cfg.Vocab.Specializations,
		cfg.Vocab.Tiers,
		cfg.Vocab.Skills,
	)

	classifier, err := newClassifier(&cfg.Model)
	if err != nil {
		return nil, err
	}
	vectorizer, err := model.LoadTFIDF(cfg.Model.VectorizerPath)
	if err != nil {
		return nil, err
	}

	roles := cfg.Roles
	if len(roles) == 0 {
		roles = config.DefaultRoleLabels()
	}
	pipe := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&infer.ClassifierNode{Vectorizer: vectorizer, Classifier: classifier},
			&rank.ConfidenceNode{
				K:             cfg.TopK,
				RoleLabels:    roles,
				FlagThreshold: cfg.FlagThreshold,
				FlagRule:      cfg.FlagRule,
				Logger:        logger,
			},
		},
	}

	ledger, err := newHistoryStore(&cfg.History, cfg.FlagThreshold, logger)
	if err != nil {
		return nil, err
	}

	var enricher *feature.SkillEnricher
	if cfg.Feast.Enabled {
		client, err := feast.NewGrpcClient(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project)
		if err != nil {
			return nil, fmt.Errorf("feast client: %w", err)
		}
		enricher = feature.NewSkillEnricher(client, cfg.Feast.FeatureView, cfg.Vocab.Skills)
		enricher.Logger = logger
	}

	corpus := insight.LoadCorpusCSV(cfg.Corpus.Path, logger)

	return &Recommender{
		Encoder:  encoder,
		Enricher: enricher,
		Pipeline: pipe,
		History:  ledger,
		Insights: insight.NewEngine(corpus),
		Logger:   logger,
	}, nil
}

// newClassifier 按配置选择分类器实现：远程推理服务优先，否则本地工件。
func newClassifier(cfg *config.ModelConfig) (core.Classifier, error) {
	if cfg.ServingEndpoint != "" {
		name := cfg.ServingModel
		if name == "" {
			name = "job_model"
		}
		return model.NewServingClient(cfg.ServingEndpoint, name)
	}
	return model.LoadLogistic(cfg.ClassifierPath)
}

// newHistoryStore 按配置选择账本后端。
func newHistoryStore(cfg *config.HistoryConfig, threshold float64, logger *slog.Logger) (core.HistoryStore, error) {
	switch cfg.Backend {
	case "", "file":
		ledger := history.NewFileLedger(cfg.Path)
		ledger.FlagThreshold = threshold
		ledger.Logger = logger
		return ledger, nil

	case "memory":
		ledger := history.NewLedger(store.NewMemoryStore())
		ledger.FlagThreshold = threshold
		ledger.Logger = logger
		return ledger, nil

	case "redis":
		kv, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		ledger := history.NewLedger(kv)
		ledger.FlagThreshold = threshold
		ledger.Logger = logger
		return ledger, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.Backend)
	}
}
