package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/rushteam/careerkit/core"
)

// FileLedger 是平面 JSON 文件实现的账本：整个账本是一个条目数组，
// 每次写入全量回写。格式与既有的 prediction_history.json 兼容。
//
// 适用于单实例、小规模部署；生产环境建议 Ledger + RedisStore。
// 文件不可读或 JSON 损坏时按空账本处理并记录日志（读返回空，
// 不向上传播解析失败），下一次成功写入会重建文件。
type FileLedger struct {
	// FlagThreshold 低置信度标记阈值；<= 0 时取 40
	FlagThreshold float64

	Logger *slog.Logger

	path string
	mu   sync.Mutex
}

// NewFileLedger 创建平面文件账本。文件不存在时首个写入会创建它。
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Upsert 按 (entry.UserID, entry.Input) 幂等写入（见 core.HistoryStore）。
func (l *FileLedger) Upsert(_ context.Context, entry *core.PredictionEntry) (bool, error) {
	if entry == nil || entry.UserID == "" {
		return false, core.NewDomainError(core.ModuleHistory, core.ErrorCodeInvalidInput,
			"history: entry without user id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Flagged = entry.TopConfidence() < l.threshold()

	all := l.load()
	updated := false
	for _, existing := range all {
		// 只在当前用户的条目中查找指纹；他人条目永不匹配
		if existing.UserID != entry.UserID {
			continue
		}
		if existing.Input.Equal(entry.Input) {
			existing.Predictions = entry.Predictions
			existing.Timestamp = entry.Timestamp
			existing.Flagged = entry.Flagged
			updated = true
			break
		}
	}
	if !updated {
		all = append(all, entry)
	}

	if err := l.save(all); err != nil {
		return false, err
	}
	return entry.Flagged, nil
}

// ListForUser 返回指定用户的全部条目，按追加顺序。
func (l *FileLedger) ListForUser(_ context.Context, userID string) ([]*core.PredictionEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var rows []*core.PredictionEntry
	for _, e := range l.load() {
		if e.UserID == userID {
			rows = append(rows, e)
		}
	}
	return rows, nil
}

// Latest 返回指定用户最近一次 upsert 的条目。
func (l *FileLedger) Latest(ctx context.Context, userID string) (*core.PredictionEntry, error) {
	rows, err := l.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.ErrEntryNotFound
	}
	latest := rows[0]
	for _, e := range rows[1:] {
		if e.Timestamp >= latest.Timestamp {
			latest = e
		}
	}
	return latest, nil
}

// RoleFrequency 返回全量账本中首位推荐职位的频次直方图。
func (l *FileLedger) RoleFrequency(_ context.Context) (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	freq := make(map[string]int)
	for _, e := range l.load() {
		if len(e.Predictions) > 0 {
			freq[e.Predictions[0].Role]++
		}
	}
	return freq, nil
}

// RoleShare 返回全量账本中首位推荐职位的占比（0-100，保留两位）。
func (l *FileLedger) RoleShare(ctx context.Context) (map[string]float64, error) {
	freq, err := l.RoleFrequency(ctx)
	if err != nil {
		return nil, err
	}
	var total int
	for _, n := range freq {
		total += n
	}
	share := make(map[string]float64, len(freq))
	for role, n := range freq {
		if total > 0 {
			share[role] = math.Round(float64(n)/float64(total)*100*100) / 100
		}
	}
	return share, nil
}

func (l *FileLedger) Close() error { return nil }

// load 读取整个账本。文件缺失返回空；损坏的 JSON 记录日志并按空处理。
func (l *FileLedger) load() []*core.PredictionEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger().Error("history file unreadable, treated as empty", "path", l.path, "err", err)
		}
		return nil
	}
	var all []*core.PredictionEntry
	if err := json.Unmarshal(data, &all); err != nil {
		l.logger().Error("history file corrupt, treated as empty", "path", l.path, "err", err)
		return nil
	}
	return all
}

func (l *FileLedger) save(all []*core.PredictionEntry) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func (l *FileLedger) threshold() float64 {
	if l.FlagThreshold > 0 {
		return l.FlagThreshold
	}
	return 40.0
}

func (l *FileLedger) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

var _ core.HistoryStore = (*FileLedger)(nil)
