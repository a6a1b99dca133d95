package core

import "strings"

// Profile 是候选人档案的核心抽象。
//
// 一句话定义：候选人档案 = 预测 Pipeline 的"全部输入信号"。
//
// 设计要点：
//   - 强类型字段替代松散 map，缺省值在此处一次性定义
//   - 所有可选字段缺失时退化为中性默认值（空串 / 0 / "Unknown"）
//   - 编码器对部分填写的档案永不报错；仅当两个必填字段
//     （Degree、Specialization）缺失时预测才被拒绝
//
// 松散输入（CGPA、Backlogs 等以字符串形式到达）保留原始字符串，
// 由编码器按宽松/严格两种模式解释。
type Profile struct {
	// 必填：预测的最低输入
	Degree         string // 学位（开放词表，缺省 "Unknown"）
	Specialization string // 专业方向

	// 可选：学业信号
	CGPA           string // 原始 CGPA 字符串，定义域 [0,10]；非数值在宽松模式下按 0 处理
	GraduationYear int    // 毕业年份（>= 2010）
	CollegeTier    string // 院校层级（有序类别："Tier 1".."Tier 3"/"Unknown"）
	Internship     string // 是否有实习（"Yes"/"No" 类布尔字符串）
	Projects       string // 项目数量分桶（"0-1"/"2-3"/"4+"）
	Backlogs       string // 挂科数原始字符串（>= 0）

	// 可选：证书与技能
	Certifications []string           // 证书列表（顺序不参与编码，但参与指纹比较）
	Skills         map[string]float64 // 技能名 -> 自评分（0-10），键来自固定技能词表
}

// NewProfile 创建一个仅含必填字段的档案。
func NewProfile(degree, specialization string) *Profile {
	return &Profile{
		Degree:         degree,
		Specialization: specialization,
		Skills:         make(map[string]float64),
	}
}

// HasMandatory 报告预测所需的两个必填字段是否齐备。
func (p *Profile) HasMandatory() bool {
	return strings.TrimSpace(p.Degree) != "" && strings.TrimSpace(p.Specialization) != ""
}

// Fingerprint 返回此档案用于历史去重的输入指纹。
func (p *Profile) Fingerprint() Fingerprint {
	certs := make([]string, len(p.Certifications))
	copy(certs, p.Certifications)
	return Fingerprint{
		Degree:         p.Degree,
		Specialization: p.Specialization,
		CGPA:           p.CGPA,
		Certifications: certs,
	}
}

// SplitCertifications 将逗号分隔的证书字符串拆分为独立条目。
// 无分隔符的裸字符串视为单个条目；空白输入返回单个 "Unknown"。
func SplitCertifications(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"Unknown"}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"Unknown"}
	}
	return out
}
