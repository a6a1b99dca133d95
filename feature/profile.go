package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/pkg/conv"
)

// ProfileEncoder 将部分填写的候选人档案编码为两种表示：
//
//  1. 规范文本表示，供冻结的 TF-IDF + 分类器路径消费：
//     "{degree} {specialization} CGPA {cgpa} {cert...} {skill}_{rating}..."
//     此拼接顺序与训练工件绑定，必须逐字重现，否则与既有模型不兼容。
//  2. 定长数值向量：学位 one-hot + 专业 one-hot + 院校层级序数 +
//     归一化 CGPA + 实习标志 + 项目分桶 + 挂科数 + 技能向量。
//
// 词表是进程级不可变配置，启动时注入；编码是确定性的：
// 编码相关字段相同的两份档案产出逐位相同的向量。
type ProfileEncoder struct {
	Degrees         *OneHotEncoder // 学位词表
	Specializations *OneHotEncoder // 专业词表
	Tiers           *OrdinalEncoder
	SkillFields     []string // 闭合技能词表，顺序决定技能向量与文本中的技能顺序
}

// NewProfileEncoder 以闭合词表创建档案编码器。
func NewProfileEncoder(degrees, specializations, tiers, skillFields []string) *ProfileEncoder {
	return &ProfileEncoder{
		Degrees:         NewOneHotEncoder(degrees),
		Specializations: NewOneHotEncoder(specializations),
		Tiers:           NewOrdinalEncoder(tiers),
		SkillFields:     skillFields,
	}
}

// Dim 返回数值向量的总维度。
func (e *ProfileEncoder) Dim() int {
	// 层级 + CGPA + 实习 + 项目 + 挂科 共 5 个标量
	return e.Degrees.Dim() + e.Specializations.Dim() + 5 + len(e.SkillFields)
}

// Encode 将档案编码为（文本表示，数值向量）。
// 仅当两个必填字段（Degree、Specialization）缺失时返回 ValidationError；
// 其余字段缺失或非法均退化为中性默认值，永不失败。
func (e *ProfileEncoder) Encode(p *core.Profile) (string, []float64, error) {
	if p == nil || !p.HasMandatory() {
		fields := map[string]string{}
		if p == nil || strings.TrimSpace(p.Degree) == "" {
			fields["degree"] = "Degree is required"
		}
		if p == nil || strings.TrimSpace(p.Specialization) == "" {
			fields["specialization"] = "Specialization is required"
		}
		return "", nil, core.NewValidationError(fields)
	}
	return e.EncodeText(p), e.EncodeVector(p), nil
}

// EncodeText 产出规范文本表示。
// 技能按词表顺序渲染为 "{skill}_{rating}"，词表之外的技能键被忽略
// （词表闭合，不新增维度）；证书缺失时渲染单个 "Unknown" token。
func (e *ProfileEncoder) EncodeText(p *core.Profile) string {
	tokens := make([]string, 0, 4+len(p.Certifications)+len(e.SkillFields))
	tokens = append(tokens,
		strings.TrimSpace(p.Degree),
		strings.TrimSpace(p.Specialization),
		"CGPA",
		strings.TrimSpace(p.CGPA),
	)

	certs := p.Certifications
	if len(certs) == 0 {
		certs = []string{"Unknown"}
	}
	for _, c := range certs {
		if c = strings.TrimSpace(c); c != "" {
			tokens = append(tokens, c)
		}
	}

	for _, skill := range e.SkillFields {
		rating, ok := p.Skills[skill]
		if !ok {
			continue
		}
		tokens = append(tokens, fmt.Sprintf("%s_%s", skill, formatRating(rating)))
	}

	return strings.Join(tokens, " ")
}

// EncodeVector 产出定长数值向量。布局（顺序固定）：
//
//	[学位 one-hot | 专业 one-hot | 层级 1..N | cgpa/10 | 实习 0/1 | 项目桶 0..3 | 挂科数 | 技能/10...]
func (e *ProfileEncoder) EncodeVector(p *core.Profile) []float64 {
	vec := make([]float64, 0, e.Dim())
	vec = append(vec, e.Degrees.Encode(p.Degree)...)
	vec = append(vec, e.Specializations.Encode(p.Specialization)...)
	vec = append(vec, e.Tiers.Encode(p.CollegeTier))
	vec = append(vec, normalizeCGPA(p.CGPA))
	vec = append(vec, conv.YesNo(p.Internship))
	vec = append(vec, projectBucket(p.Projects))
	vec = append(vec, float64(conv.SafeInt(p.Backlogs)))
	for _, skill := range e.SkillFields {
		vec = append(vec, normalizeSkill(p.Skills[skill]))
	}
	return vec
}

// ValidateIntake 是档案录入时的严格校验模式。
// 与编码时的宽松退化不同，录入时越界/非数值的 CGPA 和毕业年份是
// 被拒绝的输入，返回字段级错误消息供调用方展示；合法输入返回 nil。
func (e *ProfileEncoder) ValidateIntake(p *core.Profile) error {
	fields := map[string]string{}
	currentYear := time.Now().Year()

	if strings.TrimSpace(p.Degree) == "" {
		fields["degree"] = "Degree is required"
	}
	if strings.TrimSpace(p.Specialization) == "" {
		fields["specialization"] = "Specialization is required"
	}

	if cg, err := strconv.ParseFloat(strings.TrimSpace(p.CGPA), 64); err != nil {
		fields["cgpa"] = "CGPA must be a number"
	} else if cg < 0 || cg > 10 {
		fields["cgpa"] = "CGPA must be between 0 and 10"
	}

	if p.GraduationYear < 2010 || p.GraduationYear > currentYear {
		fields["year"] = fmt.Sprintf("Year must be between 2010 and %d", currentYear)
	}

	if len(fields) > 0 {
		return core.NewValidationError(fields)
	}
	return nil
}

// normalizeCGPA 将 CGPA 除以 10 归一化，保留三位小数。
// 非数值输入按 0.0 处理（宽松模式契约）。
func normalizeCGPA(raw string) float64 {
	cg := conv.SafeFloat(raw)
	return math.Round(cg/10*1000) / 1000
}

// normalizeSkill 将 0-10 的技能自评分除以 10 归一化，保留两位小数。
// 缺失的技能维度为 0.0。
func normalizeSkill(rating float64) float64 {
	return math.Round(rating/10*100) / 100
}

// projectBucket 将项目数量分桶编码："0-1" -> 1, "2-3" -> 2, "4+" -> 3。
// 判定按子串匹配，与训练期预处理保持一致。
func projectBucket(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	switch {
	case strings.Contains(raw, "0"):
		return 1
	case strings.Contains(raw, "2"):
		return 2
	case strings.Contains(raw, "4"):
		return 3
	}
	return 0
}

// formatRating 渲染技能评分：整数评分渲染为整数（9 -> "9"），
// 与训练语料中的 token 形态一致。
func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}
