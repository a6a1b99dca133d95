package core

import "context"

// TimestampLayout 是历史账本中时间戳的序列化格式。
// 与既有账本文件保持兼容，不使用 RFC3339。
const TimestampLayout = "2006-01-02 15:04:05"

// RolePrediction 是一条（职位名，置信度）推荐。
//
// 注意：Confidence 是 Top-K 重归一化后的相对份额（0-100），
// 不是校准后的后验概率——它忽略了被截断类别的概率质量，
// 只应解读为"展示的候选之间的相对占比"。
type RolePrediction struct {
	Role       string  `json:"job_role"`
	Confidence float64 `json:"confidence"`
}

// Fingerprint 是一次预测的输入指纹：用于检测同一用户的重复预测。
// 四个字段全部精确相等（含 Certifications 列表的顺序）才视为同一输入。
type Fingerprint struct {
	Degree         string   `json:"degree"`
	Specialization string   `json:"specialization"`
	CGPA           string   `json:"cgpa"`
	Certifications []string `json:"certifications"`
}

// Equal 按完整结构相等比较两个指纹。
// Certifications 的比较是顺序敏感的：同一组证书以不同顺序提交会
// 产生新的历史条目。调用方若需要集合语义，应在调用前自行排序。
func (f Fingerprint) Equal(other Fingerprint) bool {
	if f.Degree != other.Degree ||
		f.Specialization != other.Specialization ||
		f.CGPA != other.CGPA {
		return false
	}
	if len(f.Certifications) != len(other.Certifications) {
		return false
	}
	for i := range f.Certifications {
		if f.Certifications[i] != other.Certifications[i] {
			return false
		}
	}
	return true
}

// PredictionEntry 是历史账本中的一行。
//
// 生命周期：同一 (UserID, Input) 首次预测时创建；指纹完全相同的重复
// 预测原地覆盖 Predictions/Timestamp/Flagged（upsert，不追加）；
// 指纹变化则新建条目。条目只归属于 UserID，其他用户的请求永不触碰。
type PredictionEntry struct {
	UserID      string           `json:"user_id"`
	Input       Fingerprint      `json:"input_details"`
	Predictions []RolePrediction `json:"predictions"`
	Timestamp   string           `json:"timestamp"`
	Flagged     bool             `json:"flagged"`
}

// TopConfidence 返回首位推荐的置信度；空列表返回 0。
func (e *PredictionEntry) TopConfidence() float64 {
	if len(e.Predictions) == 0 {
		return 0
	}
	return e.Predictions[0].Confidence
}

// HistoryStore 是预测历史账本的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（history）实现
//   - 注入式存储替代全局可变文件状态，实现可在测试中替换
//
// 并发语义：实现以进程内单写锁串行化写入；跨进程对同一
// (UserID, Fingerprint) 的并发 upsert 为 last-writer-wins，无跨进程
// 锁——在单用户编辑自身档案的低争用场景下可接受，此为已知限制。
type HistoryStore interface {
	// Upsert 按 (entry.UserID, entry.Input) 做幂等写入：
	// 找到指纹完全相等的既有条目则原地覆盖，否则追加。
	// 返回该条目是否被标记为待复核（首位置信度低于阈值）。
	Upsert(ctx context.Context, entry *PredictionEntry) (flagged bool, err error)

	// ListForUser 返回指定用户的全部条目，按存储顺序（追加顺序）。
	// 用户不存在或无记录时返回空切片，不报错。
	ListForUser(ctx context.Context, userID string) ([]*PredictionEntry, error)

	// Latest 返回指定用户最近一次 upsert 的条目；
	// 无记录时返回 ErrEntryNotFound。
	Latest(ctx context.Context, userID string) (*PredictionEntry, error)

	// RoleFrequency 返回全量账本（跨用户）中首位推荐职位的频次直方图。
	// 纯读侧聚合，供可视化消费，不产生任何写入。
	RoleFrequency(ctx context.Context) (map[string]int, error)

	// RoleShare 返回全量账本中首位推荐职位的占比（0-100）。
	RoleShare(ctx context.Context) (map[string]float64, error)

	// Close 释放底层资源
	Close() error
}
