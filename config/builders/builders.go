// Package builders 通过 init 注册内置 Node 构建器，
// 入口处 import _ "github.com/rushteam/careerkit/config/builders" 即可启用配置驱动。
package builders

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rushteam/careerkit/config"
	"github.com/rushteam/careerkit/infer"
	"github.com/rushteam/careerkit/model"
	"github.com/rushteam/careerkit/pipeline"
	"github.com/rushteam/careerkit/pkg/conv"
	"github.com/rushteam/careerkit/rank"
)

func init() {
	config.Register("infer.classifier", BuildClassifierNode)
	config.Register("rank.confidence", BuildConfidenceNode)
}

// BuildClassifierNode 构建推理 Node。
// 配置二选一：本地工件（vectorizer_path + classifier_path），
// 或远程推理服务（serving_endpoint + serving_model，优先）。
func BuildClassifierNode(cfg map[string]interface{}) (pipeline.Node, error) {
	vectorizerPath := conv.ConfigGet(cfg, "vectorizer_path", "")
	if vectorizerPath == "" {
		return nil, fmt.Errorf("vectorizer_path not found")
	}
	vectorizer, err := model.LoadTFIDF(vectorizerPath)
	if err != nil {
		return nil, err
	}

	if endpoint := conv.ConfigGet(cfg, "serving_endpoint", ""); endpoint != "" {
		name := conv.ConfigGet(cfg, "serving_model", "job_model")
		var opts []model.ServingOption
		if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
			opts = append(opts, model.WithServingTimeout(time.Duration(sec)*time.Second))
		}
		classifier, err := model.NewServingClient(endpoint, name, opts...)
		if err != nil {
			return nil, err
		}
		return &infer.ClassifierNode{Vectorizer: vectorizer, Classifier: classifier}, nil
	}

	classifierPath := conv.ConfigGet(cfg, "classifier_path", "")
	if classifierPath == "" {
		return nil, fmt.Errorf("classifier_path not found")
	}
	classifier, err := model.LoadLogistic(classifierPath)
	if err != nil {
		return nil, err
	}
	return &infer.ClassifierNode{Vectorizer: vectorizer, Classifier: classifier}, nil
}

// BuildConfidenceNode 构建排序 Node。
// roles 缺省时使用内置职位标签映射；YAML 中编码写作字符串键。
func BuildConfidenceNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rank.ConfidenceNode{
		K:             int(conv.ConfigGetInt64(cfg, "top_k", rank.DefaultTopK)),
		FlagThreshold: conv.ConfigGetFloat64(cfg, "flag_threshold", rank.DefaultFlagThreshold),
		FlagRule:      conv.ConfigGet(cfg, "flag_rule", ""),
		RoleLabels:    config.DefaultRoleLabels(),
	}

	if raw, ok := cfg["roles"].(map[string]interface{}); ok {
		labels := make(map[int]string, len(raw))
		for k, v := range raw {
			code, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("invalid role code %q", k)
			}
			name, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("invalid role label for code %s", k)
			}
			labels[code] = name
		}
		node.RoleLabels = labels
	}

	return node, nil
}
