package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rushteam/careerkit/core"
)

// LogisticClassifier 实现了多项逻辑回归 (Multinomial Logistic
// Regression) 分类头，即职位推荐模型的推理端。
//
// 预测原理：
//  1. 每类线性打分: z_c = Intercept_c + sum(Coef_c_j * Feature_j)
//  2. Softmax 变换: P_c = exp(z_c) / sum(exp(z_k))
//
// 输出对每个训练类别给出概率，名义上和为 1.0（受浮点误差影响）。
// 权重由离线训练产出，进程启动时加载一次，此后只读。
type LogisticClassifier struct {
	// ClassList 训练类别编码的固定顺序，与 Coef/Intercept 行对应
	ClassList []int

	// Coef 权重矩阵：类别数 x 特征维度
	Coef [][]float64

	// Intercept 每类偏置项，长度 = 类别数
	Intercept []float64
}

// logisticArtifact 是 JSON 工件的序列化形态。
type logisticArtifact struct {
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// LoadLogistic 从 JSON 工件加载冻结的分类器。
// 工件缺失或维度不一致是启动级致命错误（UNAVAILABLE）。
func LoadLogistic(path string) (*LogisticClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: load classifier %s: %v", path, err))
	}
	var raw logisticArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: parse classifier %s: %v", path, err))
	}
	m := &LogisticClassifier{
		ClassList: raw.Classes,
		Coef:      raw.Coef,
		Intercept: raw.Intercept,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LogisticClassifier) validate() error {
	n := len(m.ClassList)
	if n == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			"model: classifier has no classes")
	}
	if len(m.Coef) != n || len(m.Intercept) != n {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: classifier shape mismatch: %d classes, %d coef rows, %d intercepts",
				n, len(m.Coef), len(m.Intercept)))
	}
	return nil
}

func (m *LogisticClassifier) Name() string { return "logistic" }

// Classes 返回训练类别编码的固定顺序。
func (m *LogisticClassifier) Classes() []int { return m.ClassList }

// PredictProba 对稀疏特征向量输出概率分布（softmax，做最大值平移
// 保证数值稳定）。
func (m *LogisticClassifier) PredictProba(_ context.Context, features map[int]float64) ([]float64, error) {
	n := len(m.ClassList)
	scores := make([]float64, n)
	for c := 0; c < n; c++ {
		z := m.Intercept[c]
		row := m.Coef[c]
		for j, x := range features {
			if j >= 0 && j < len(row) {
				z += row[j] * x
			}
		}
		scores[c] = z
	}

	maxScore := scores[0]
	for _, z := range scores[1:] {
		if z > maxScore {
			maxScore = z
		}
	}

	var sum float64
	probs := make([]float64, n)
	for c, z := range scores {
		p := math.Exp(z - maxScore)
		probs[c] = p
		sum += p
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs, nil
}

var _ core.Classifier = (*LogisticClassifier)(nil)
