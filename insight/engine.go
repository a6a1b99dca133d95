package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// RoleCount 是一个（职位，历史匹配条数）计数。
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Result 是一次洞察的产出：模板化消息 + 最高频的去向职位计数。
type Result struct {
	Message  string      `json:"message"`
	TopRoles []RoleCount `json:"top_roles"`
}

// Engine 是相似度洞察引擎：与主预测链路独立的第二信号。
//
// 匹配方式是将（小写化的）学位字符串作为简历文本的子串查找——
// 一个廉价的相似性代理，不是嵌入检索；消费方不应把它与模型
// 预测混为一谈。
type Engine struct {
	// TopN 报告的最高频职位数量；<= 0 时取 5
	TopN int

	corpus *Corpus
}

// NewEngine 以只读语料创建洞察引擎。
func NewEngine(corpus *Corpus) *Engine {
	return &Engine{corpus: corpus}
}

// Insight 在语料中查找与该学位背景相似的历史档案，报告主导去向
// 职位及其占比。
//
// 输出口径：
//   - 语料不可用 -> "Insights data not available."，空 TopRoles
//   - 无匹配 -> "No historical profiles found for {degree}."（小写学位）
//   - 有匹配 -> 主导职位 = 最高频职位（同频取先出现者）；
//     百分比 = 主导职位占匹配条数的比例，四舍五入到整数
func (e *Engine) Insight(degree string) *Result {
	if e.corpus.Empty() {
		return &Result{Message: "Insights data not available."}
	}

	needle := strings.ToLower(strings.TrimSpace(degree))
	var matched []Record
	for _, rec := range e.corpus.Records {
		if strings.Contains(strings.ToLower(rec.Resume), needle) {
			matched = append(matched, rec)
		}
	}

	if len(matched) == 0 {
		return &Result{Message: fmt.Sprintf("No historical profiles found for %s.", needle)}
	}

	// 按首次出现顺序计数，稳定排序后同频职位保持出现顺序
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range matched {
		if _, seen := counts[rec.Role]; !seen {
			order = append(order, rec.Role)
		}
		counts[rec.Role]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	topN := e.TopN
	if topN <= 0 {
		topN = 5
	}
	if len(order) > topN {
		order = order[:topN]
	}
	topRoles := make([]RoleCount, 0, len(order))
	for _, role := range order {
		topRoles = append(topRoles, RoleCount{Role: role, Count: counts[role]})
	}

	dominant := topRoles[0]
	percentage := int(math.Round(float64(dominant.Count) / float64(len(matched)) * 100))

	return &Result{
		Message: fmt.Sprintf(
			"%d%% of candidates with a %s background were hired as %s based on resume analysis.",
			percentage, degree, dominant.Role,
		),
		TopRoles: topRoles,
	}
}
