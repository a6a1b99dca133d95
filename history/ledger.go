// Package history 实现预测历史账本：按 (用户, 输入指纹) 幂等写入，
// 读取按用户隔离，另提供跨用户的只读聚合。
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/rushteam/careerkit/core"
)

// Ledger 是基于 core.KeyValueStore 的账本实现。
//
// 存储布局：
//   - Hash "history:{user}"：field 为条目序号（"0","1",...），
//     value 为条目 JSON。序号即追加顺序。
//   - Key "history:_users"：全部用户 ID 的 JSON 数组，供跨用户聚合
//     读取时定位所有 Hash。
//
// 写入由进程内单写锁串行化；跨进程对同一 (用户, 指纹) 的并发
// upsert 为 last-writer-wins（无跨进程锁，低争用场景下可接受）。
type Ledger struct {
	// FlagThreshold 低置信度标记阈值；<= 0 时取 40
	FlagThreshold float64

	Logger *slog.Logger

	kv core.KeyValueStore
	mu sync.Mutex
}

const usersIndexKey = "history:_users"

// NewLedger 创建基于 KV 存储的账本。
func NewLedger(kv core.KeyValueStore) *Ledger {
	return &Ledger{kv: kv}
}

func userKey(userID string) string { return "history:" + userID }

// Upsert 按 (entry.UserID, entry.Input) 幂等写入。
// 指纹完全相等（含证书列表顺序）的既有条目被原地覆盖，否则追加；
// 其他用户的条目永不被扫描或改写。
func (l *Ledger) Upsert(ctx context.Context, entry *core.PredictionEntry) (bool, error) {
	if entry == nil || entry.UserID == "" {
		return false, core.NewDomainError(core.ModuleHistory, core.ErrorCodeInvalidInput,
			"history: entry without user id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Flagged = entry.TopConfidence() < l.threshold()

	rows, nextSeq, err := l.loadUserRows(ctx, entry.UserID)
	if err != nil {
		return false, err
	}

	// 覆盖写必须落在指纹匹配条目的原始 field 序号上；
	// 追加写落在最大已占用序号之后（损坏条目仍占用其序号，不可复用）。
	seq := nextSeq
	appended := true
	for _, r := range rows {
		if r.entry.Input.Equal(entry.Input) {
			seq = r.seq
			appended = false
			break
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("marshal entry: %w", err)
	}
	if err := l.kv.HSet(ctx, userKey(entry.UserID), strconv.Itoa(seq), data); err != nil {
		return false, err
	}
	if appended {
		// 新用户/新条目：维护用户索引供聚合读取
		if err := l.indexUser(ctx, entry.UserID); err != nil {
			return false, err
		}
	}
	return entry.Flagged, nil
}

// ListForUser 返回指定用户的全部条目，按追加顺序。
func (l *Ledger) ListForUser(ctx context.Context, userID string) ([]*core.PredictionEntry, error) {
	return l.loadUser(ctx, userID)
}

// Latest 返回指定用户最近一次 upsert 的条目（时间戳最新，
// 同时间戳取存储顺序靠后者）；无记录时返回 ErrEntryNotFound。
func (l *Ledger) Latest(ctx context.Context, userID string) (*core.PredictionEntry, error) {
	rows, err := l.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.ErrEntryNotFound
	}
	latest := rows[0]
	for _, e := range rows[1:] {
		// TimestampLayout 按字典序即时间序
		if e.Timestamp >= latest.Timestamp {
			latest = e
		}
	}
	return latest, nil
}

// RoleFrequency 返回全量账本中首位推荐职位的频次直方图。
func (l *Ledger) RoleFrequency(ctx context.Context) (map[string]int, error) {
	freq := make(map[string]int)
	if err := l.scanAll(ctx, func(e *core.PredictionEntry) {
		if len(e.Predictions) > 0 {
			freq[e.Predictions[0].Role]++
		}
	}); err != nil {
		return nil, err
	}
	return freq, nil
}

// RoleShare 返回全量账本中首位推荐职位的占比（0-100，保留两位）。
func (l *Ledger) RoleShare(ctx context.Context) (map[string]float64, error) {
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

// Close 释放底层存储。
func (l *Ledger) Close() error {
	return l.kv.Close()
}

// userRow 是带存储 field 序号的条目，序号用于原地覆盖定位。
type userRow struct {
	seq   int
	entry *core.PredictionEntry
}

// loadUser 按序号顺序还原一个用户的条目。
// 单条损坏的 JSON 被记录并跳过（降级为可读部分），不中断读取。
func (l *Ledger) loadUser(ctx context.Context, userID string) ([]*core.PredictionEntry, error) {
	rows, _, err := l.loadUserRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]*core.PredictionEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry)
	}
	return entries, nil
}

// loadUserRows 还原条目及其存储序号，并返回下一个空闲序号。
// 被跳过的损坏条目不出现在结果里，但其序号仍计入空闲序号的计算，
// 因此追加写永远不会覆盖任何既有 field。
func (l *Ledger) loadUserRows(ctx context.Context, userID string) ([]userRow, int, error) {
	fields, err := l.kv.HGetAll(ctx, userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	nextSeq := 0
	seqs := make([]int, 0, len(fields))
	for f := range fields {
		seq, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		seqs = append(seqs, seq)
		if seq >= nextSeq {
			nextSeq = seq + 1
		}
	}
	sort.Ints(seqs)

	rows := make([]userRow, 0, len(seqs))
	for _, seq := range seqs {
		var e core.PredictionEntry
		if err := json.Unmarshal(fields[strconv.Itoa(seq)], &e); err != nil {
			l.logger().Error("corrupt history entry skipped", "user_id", userID, "seq", seq, "err", err)
			continue
		}
		rows = append(rows, userRow{seq: seq, entry: &e})
	}
	return rows, nextSeq, nil
}

// indexUser 将用户加入聚合索引（幂等）。
func (l *Ledger) indexUser(ctx context.Context, userID string) error {
	users, err := l.loadIndex(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u == userID {
			return nil
		}
	}
	users = append(users, userID)
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal user index: %w", err)
	}
	return l.kv.Set(ctx, usersIndexKey, data)
}

func (l *Ledger) loadIndex(ctx context.Context) ([]string, error) {
	data, err := l.kv.Get(ctx, usersIndexKey)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		// 索引损坏按空处理：聚合读降级，不阻断写入
		l.logger().Error("corrupt user index treated as empty", "err", err)
		return nil, nil
	}
	return users, nil
}

func (l *Ledger) scanAll(ctx context.Context, visit func(*core.PredictionEntry)) error {
	users, err := l.loadIndex(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		rows, err := l.loadUser(ctx, u)
		if err != nil {
			return err
		}
		for _, e := range rows {
			visit(e)
		}
	}
	return nil
}

func (l *Ledger) threshold() float64 {
	if l.FlagThreshold > 0 {
		return l.FlagThreshold
	}
	return 40.0
}

func (l *Ledger) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

var _ core.HistoryStore = (*Ledger)(nil)
