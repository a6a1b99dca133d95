// Package insight 实现相似度洞察引擎：在历史简历语料上做学位子串
// 匹配，报告相似背景候选人的主导去向职位及其占比。
package insight

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Record 是历史语料中的一行：简历自由文本 + 最终去向职位。
type Record struct {
	Resume string // 简历文本（训练语料的原始列）
	Role   string // 最终去向职位名
}

// Corpus 是只读的历史语料快照，进程启动时加载一次。
type Corpus struct {
	Records []Record
}

// LoadCorpusCSV 从平面 CSV 文件加载语料。
// 期望表头包含 "Resume" 与 "job_role" 两列（顺序不限）。
//
// 文件缺失、表头不符或行级解析失败按降级处理：记录日志、跳过/
// 返回空语料，洞察引擎继续以"数据不可用"口径工作，而非失败。
func LoadCorpusCSV(path string, logger *slog.Logger) *Corpus {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error("insight corpus unreadable, insights degraded", "path", path, "err", err)
		return &Corpus{}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		logger.Error("insight corpus header unreadable, insights degraded", "path", path, "err", err)
		return &Corpus{}
	}

	resumeIdx, roleIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Resume":
			resumeIdx = i
		case "job_role":
			roleIdx = i
		}
	}
	if resumeIdx < 0 || roleIdx < 0 {
		logger.Error("insight corpus missing required columns", "path", path, "header", header)
		return &Corpus{}
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 单行损坏不拖垮整个语料
			logger.Warn("insight corpus row skipped", "path", path, "err", err)
			continue
		}
		if resumeIdx >= len(row) || roleIdx >= len(row) {
			continue
		}
		records = append(records, Record{
			Resume: row[resumeIdx],
			Role:   row[roleIdx],
		})
	}

	return &Corpus{Records: records}
}

// Empty 报告语料是否为空（加载失败或无数据）。
func (c *Corpus) Empty() bool {
	return c == nil || len(c.Records) == 0
}
