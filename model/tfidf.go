package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rushteam/careerkit/core"
)

// TFIDFVectorizer 是冻结的 TF-IDF 文本向量化器。
//
// 工件由离线训练产出（词表 + 每维 idf 权重），本库只做推理期的
// Transform：分词、查词表、tf*idf 加权、l2 归一化。词表之外的
// token 被静默丢弃（标准词袋行为），永不报错。
//
// 分词与训练保持一致：小写化后取 [a-z0-9_] 的连续串，且长度 >= 2
// （"programming_9" 是单个 token）。
type TFIDFVectorizer struct {
	// Vocabulary token -> 特征索引
	Vocabulary map[string]int

	// IDF 每个特征索引的逆文档频率权重，长度 = |Vocabulary|
	IDF []float64
}

// tfidfArtifact 是 JSON 工件的序列化形态。
type tfidfArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// LoadTFIDF 从 JSON 工件加载冻结的向量化器。
// 工件缺失或结构非法是启动级致命错误（UNAVAILABLE）。
func LoadTFIDF(path string) (*TFIDFVectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: load vectorizer %s: %v", path, err))
	}
	var raw tfidfArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: parse vectorizer %s: %v", path, err))
	}
	v := &TFIDFVectorizer{Vocabulary: raw.Vocabulary, IDF: raw.IDF}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *TFIDFVectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			"model: vectorizer vocabulary is empty")
	}
	for token, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
				fmt.Sprintf("model: vectorizer index %d for token %q out of idf range %d", idx, token, len(v.IDF)))
		}
	}
	return nil
}

// Dim 返回训练特征空间的维度。
func (v *TFIDFVectorizer) Dim() int { return len(v.IDF) }

// Transform 将文本转为稀疏特征向量（索引 -> 权重）。
// 权重 = 词频 * idf，随后整体 l2 归一化。
func (v *TFIDFVectorizer) Transform(text string) map[int]float64 {
	counts := make(map[int]int)
	for _, token := range Tokenize(text) {
		if idx, ok := v.Vocabulary[token]; ok {
			counts[idx]++
		}
	}

	vec := make(map[int]float64, len(counts))
	var norm float64
	for idx, tf := range counts {
		w := float64(tf) * v.IDF[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// Tokenize 按训练期规则分词：小写化，取字母/数字/下划线的连续串，
// 丢弃长度为 1 的 token。
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	tokens := make([]string, 0, 16)
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if tok := text[start:i]; len(tok) >= 2 {
				tokens = append(tokens, tok)
			}
			start = -1
		}
	}
	if start >= 0 {
		if tok := text[start:]; len(tok) >= 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9')
}

var _ core.Vectorizer = (*TFIDFVectorizer)(nil)
