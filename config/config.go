// Package config 提供进程级不可变配置：闭合词表、职位标签映射、
// 阈值与后端选择在启动时加载一次，注入编码器/排序器/账本，
// 而不是作为环境全局量被各处引用。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是 Careerkit 的顶层配置。
type Config struct {
	// Vocab 闭合词表：与训练工件绑定，运行期不可变
	Vocab VocabConfig `yaml:"vocab"`

	// Roles 类别编码 -> 职位名的固定映射，随训练工件版本化；
	// 编码缺失时排序器渲染占位名 Role_{code}
	Roles map[int]string `yaml:"roles"`

	// TopK 推荐数量，默认 5
	TopK int `yaml:"top_k"`

	// FlagThreshold 低置信度标记阈值（百分比），默认 40
	FlagThreshold float64 `yaml:"flag_threshold"`

	// FlagRule 可选 CEL 标记规则，非空时替代阈值判定
	FlagRule string `yaml:"flag_rule"`

	Model   ModelConfig   `yaml:"model"`
	History HistoryConfig `yaml:"history"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Feast   FeastConfig   `yaml:"feast"`
}

// VocabConfig 闭合词表配置。
type VocabConfig struct {
	Degrees         []string `yaml:"degrees"`
	Specializations []string `yaml:"specializations"`
	Tiers           []string `yaml:"tiers"`
	Skills          []string `yaml:"skills"`
}

// ModelConfig 模型工件配置：本地 JSON 工件对，或进程外推理服务
// （ServingEndpoint 非空时优先）。
type ModelConfig struct {
	VectorizerPath  string `yaml:"vectorizer_path"`
	ClassifierPath  string `yaml:"classifier_path"`
	ServingEndpoint string `yaml:"serving_endpoint"`
	ServingModel    string `yaml:"serving_model"`
}

// HistoryConfig 账本后端配置。
type HistoryConfig struct {
	// Backend 后端类型：file / memory / redis
	Backend string `yaml:"backend"`

	// Path 平面文件账本路径（backend=file）
	Path string `yaml:"path"`

	// RedisAddr / RedisDB Redis 后端（backend=redis）
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
}

// CorpusConfig 洞察语料配置。
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// FeastConfig 技能特征补全配置（可选）。
type FeastConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Project     string `yaml:"project"`
	FeatureView string `yaml:"feature_view"`
}

// Default 返回内置默认配置：词表与职位映射随训练工件固定。
func Default() *Config {
	return &Config{
		Vocab: VocabConfig{
			Degrees: []string{
				"B.Tech", "M.Tech", "M.Sc", "MBA", "B.Com", "Diploma", "Unknown",
			},
			Specializations: []string{
				"Computer Science", "CSE", "ECE", "Mechanical", "Civil",
				"Accounting", "Unknown",
			},
			Tiers: []string{"Tier 1", "Tier 2", "Tier 3", "Unknown"},
			Skills: []string{
				"programming",
				"data_analysis",
				"ml",
				"web",
				"sql",
				"cloud",
				"communication",
				"problem_solving",
			},
		},
		Roles:         DefaultRoleLabels(),
		TopK:          5,
		FlagThreshold: 40,
		Model: ModelConfig{
			VectorizerPath: "models/vectorizer.json",
			ClassifierPath: "models/job_model.json",
		},
		History: HistoryConfig{
			Backend: "file",
			Path:    "prediction_history.json",
		},
		Corpus: CorpusConfig{
			Path: "dataset/edu2job_cleaned.csv",
		},
		Feast: FeastConfig{
			FeatureView: "candidate_skills",
		},
	}
}

// Load 从 YAML 文件加载配置，未出现的字段保持默认值。
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
