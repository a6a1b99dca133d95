package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/store"
)

func newTestLedger() *Ledger {
	return NewLedger(store.NewMemoryStore())
}

func makeEntry(userID, degree, ts string, confidence float64) *core.PredictionEntry {
	return &core.PredictionEntry{
		UserID: userID,
		Input: core.Fingerprint{
			Degree:         degree,
			Specialization: "Computer Science",
			CGPA:           "8.5",
			Certifications: []string{"AWS", "Python"},
		},
		Predictions: []core.RolePrediction{
			{Role: "Software Engineer", Confidence: confidence},
			{Role: "Data Analyst", Confidence: 100 - confidence},
		},
		Timestamp: ts,
	}
}

func TestLedger_UpsertIdempotent(t *testing.T) {
	l := newTestLedger()
	defer l.Close()
	ctx := context.Background()

	if _, err := l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-01 10:00:00", 60)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	// 指纹相同：原地覆盖，不追加
	if _, err := l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-02 11:00:00", 70)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	rows, err := l.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1 (same fingerprint overwrites)", len(rows))
	}
	if rows[0].Timestamp != "2026-01-02 11:00:00" {
		t.Errorf("timestamp = %q, want refreshed", rows[0].Timestamp)
	}
	if rows[0].TopConfidence() != 70 {
		t.Errorf("top confidence = %v, want 70", rows[0].TopConfidence())
	}

	// 指纹变化：新建条目
	if _, err := l.Upsert(ctx, makeEntry("alice", "M.Tech", "2026-01-03 09:00:00", 55)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	rows, _ = l.ListForUser(ctx, "alice")
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2 (changed fingerprint appends)", len(rows))
	}
}

func TestLedger_CertificationOrderIsNewEntry(t *testing.T) {
	l := newTestLedger()
	defer l.Close()
	ctx := context.Background()

	e1 := makeEntry("alice", "B.Tech", "2026-01-01 10:00:00", 60)
	e2 := makeEntry("alice", "B.Tech", "2026-01-02 10:00:00", 60)
	e2.Input.Certifications = []string{"Python", "AWS"}

	l.Upsert(ctx, e1)
	l.Upsert(ctx, e2)

	rows, _ := l.ListForUser(ctx, "alice")
	if len(rows) != 2 {
		t.Errorf("len = %d, want 2 (certification order is part of the fingerprint)", len(rows))
	}
}

func TestLedger_UsersDoNotInterfere(t *testing.T) {
	l := newTestLedger()
	defer l.Close()
	ctx := context.Background()

	// 两个用户提交相同档案：各自独立记账
	l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-01 10:00:00", 60))
	l.Upsert(ctx, makeEntry("bob", "B.Tech", "2026-01-01 10:05:00", 60))

	aliceRows, _ := l.ListForUser(ctx, "alice")
	bobRows, _ := l.ListForUser(ctx, "bob")
	if len(aliceRows) != 1 || len(bobRows) != 1 {
		t.Fatalf("rows = (%d, %d), want (1, 1)", len(aliceRows), len(bobRows))
	}
	if aliceRows[0].UserID != "alice" || bobRows[0].UserID != "bob" {
		t.Error("entries leaked across users")
	}
}

func TestLedger_UpsertFlagsLowConfidence(t *testing.T) {
	l := newTestLedger()
	defer l.Close()
	ctx := context.Background()

	tests := []struct {
		confidence float64
		want       bool
	}{
		{39.99, true},
		{40.0, false}, // 恰好等于阈值不标记
		{60, false},
	}
	for i, tt := range tests {
		flagged, err := l.Upsert(ctx, makeEntry("alice", fmt.Sprintf("Degree-%d", i), "2026-01-01 10:00:00", tt.confidence))
		if err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
		if flagged != tt.want {
			t.Errorf("confidence %v: flagged = %v, want %v", tt.confidence, flagged, tt.want)
		}
	}
}

func TestLedger_UpsertRejectsMissingUser(t *testing.T) {
	l := newTestLedger()
	defer l.Close()

	if _, err := l.Upsert(context.Background(), &core.PredictionEntry{}); !core.IsInvalidInput(err) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
	if _, err := l.Upsert(context.Background(), nil); !core.IsInvalidInput(err) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestLedger_Latest(t *testing.T) {
	l := newTestLedger()
	defer l.Close()
	ctx := context.Background()

	if _, err := l.Latest(ctx, "ghost"); err != core.ErrEntryNotFound {
		t.Errorf("Latest() error = %v, want ErrEntryNotFound", err)
	}

	l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-01 10:00:00", 60))
	l.Upsert(ctx, makeEntry("alice", "M.Tech", "2026-01-03 10:00:00", 55))
	// 原地覆盖第一条：它成为最近一次 upsert，虽然存储位置靠前
	l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-05 10:00:00", 65))

	latest, err := l.Latest(ctx, "alice")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Timestamp != "2026-01-05 10:00:00" {
		t.Errorf("latest timestamp = %q, want the most recent upsert", latest.Timestamp)
	}
	if latest.Input.Degree != "B.Tech" {
		t.Errorf("latest degree = %q, want B.Tech", latest.Input.Degree)
	}
}

func TestLedger_Aggregates(t *testing.T) {
	l := newTestLedger()
	defer l.Close()
	ctx := context.Background()

	put := func(user, degree, topRole string) {
		l.Upsert(ctx, &core.PredictionEntry{
			UserID: user,
			Input:  core.Fingerprint{Degree: degree, Specialization: "CS"},
			Predictions: []core.RolePrediction{
				{Role: topRole, Confidence: 80},
				{Role: "Other", Confidence: 20},
			},
			Timestamp: "2026-01-01 10:00:00",
		})
	}
	put("alice", "B.Tech", "Software Engineer")
	put("alice", "M.Tech", "Software Engineer")
	put("bob", "B.Tech", "Data Analyst")
	put("carol", "MBA", "Software Engineer")

	freq, err := l.RoleFrequency(ctx)
	if err != nil {
		t.Fatalf("RoleFrequency() error = %v", err)
	}
	if freq["Software Engineer"] != 3 || freq["Data Analyst"] != 1 {
		t.Errorf("freq = %v, want SE=3 DA=1", freq)
	}

	share, err := l.RoleShare(ctx)
	if err != nil {
		t.Fatalf("RoleShare() error = %v", err)
	}
	if share["Software Engineer"] != 75.0 {
		t.Errorf("share[SE] = %v, want 75", share["Software Engineer"])
	}
	if share["Data Analyst"] != 25.0 {
		t.Errorf("share[DA] = %v, want 25", share["Data Analyst"])
	}
}

func TestLedger_CorruptEntrySkipped(t *testing.T) {
	kv := store.NewMemoryStore()
	l := NewLedger(kv)
	defer l.Close()
	ctx := context.Background()

	l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-01 10:00:00", 60))
	// 手工写坏第二条
	if err := kv.HSet(ctx, "history:alice", "1", []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	rows, err := l.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len = %d, want 1 (corrupt entry skipped)", len(rows))
	}
}

func TestLedger_UpsertPreservesEntriesAfterCorruption(t *testing.T) {
	kv := store.NewMemoryStore()
	l := NewLedger(kv)
	defer l.Close()
	ctx := context.Background()

	// 首条损坏、次条完好：后续写入不得动到完好条目的 field
	if err := kv.HSet(ctx, "history:alice", "0", []byte("{broken")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-01 10:00:00", 60)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// 新指纹：追加，不覆盖
	if _, err := l.Upsert(ctx, makeEntry("alice", "M.Tech", "2026-01-02 10:00:00", 55)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	rows, err := l.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2 (append must not reuse occupied fields)", len(rows))
	}
	if rows[0].Input.Degree != "B.Tech" || rows[1].Input.Degree != "M.Tech" {
		t.Errorf("degrees = [%s %s], want [B.Tech M.Tech]", rows[0].Input.Degree, rows[1].Input.Degree)
	}

	// 指纹匹配：覆盖在原 field 上，不产生重复
	if _, err := l.Upsert(ctx, makeEntry("alice", "B.Tech", "2026-01-03 10:00:00", 70)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	rows, _ = l.ListForUser(ctx, "alice")
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2 (overwrite must land on the original field)", len(rows))
	}
	var found *core.PredictionEntry
	for _, e := range rows {
		if e.Input.Degree == "B.Tech" {
			if found != nil {
				t.Fatal("duplicate B.Tech entry after overwrite")
			}
			found = e
		}
	}
	if found == nil || found.Timestamp != "2026-01-03 10:00:00" {
		t.Errorf("B.Tech entry = %+v, want refreshed timestamp", found)
	}
}
