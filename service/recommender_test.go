package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/careerkit/core"
	"github.com/rushteam/careerkit/feature"
	"github.com/rushteam/careerkit/history"
	"github.com/rushteam/careerkit/infer"
	"github.com/rushteam/careerkit/insight"
	"github.com/rushteam/careerkit/model"
	"github.com/rushteam/careerkit/pipeline"
	"github.com/rushteam/careerkit/rank"
	"github.com/rushteam/careerkit/store"
)

func newTestRecommender(t *testing.T) *Recommender {
	t.Helper()

	// 三个类别的微型模型：文本中的词表 token 决定概率分布
	vectorizer := &model.TFIDFVectorizer{
		Vocabulary: map[string]int{"tech": 0, "computer": 1, "science": 2},
		IDF:        []float64{1.0, 1.0, 1.0},
	}
	classifier := &model.LogisticClassifier{
		ClassList: []int{18, 62, 71},
		Coef: [][]float64{
			{0.5, 0.2, 0.1},
			{1.5, 1.2, 1.1},
			{0.1, 0.1, 0.1},
		},
		Intercept: []float64{0.0, 0.5, 0.0},
	}

	encoder := feature.NewProfileEncoder(
		[]string{"B.Tech", "M.Tech", "Unknown"},
		[]string{"Computer Science", "ECE", "Unknown"},
		[]string{"Tier 1", "Tier 2", "Tier 3", "Unknown"},
		[]string{"programming", "sql"},
	)

	fixed := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	return &Recommender{
		Encoder: encoder,
		Pipeline: &pipeline.Pipeline{
			Nodes: []pipeline.Node{
				&infer.ClassifierNode{Vectorizer: vectorizer, Classifier: classifier},
				&rank.ConfidenceNode{
					K: 3,
					RoleLabels: map[int]string{
						18: "Data Analyst",
						62: "Software Engineer",
						71: "Web Developer",
					},
				},
			},
		},
		History:  history.NewLedger(store.NewMemoryStore()),
		Insights: insight.NewEngine(&insight.Corpus{Records: []insight.Record{
			{Resume: "b.tech computer science", Role: "Software Engineer"},
			{Resume: "b.tech cse", Role: "Software Engineer"},
			{Resume: "b.tech ece", Role: "Data Analyst"},
		}}),
		Now: func() time.Time { return fixed },
	}
}

func testProfile() *core.Profile {
	p := core.NewProfile("B.Tech", "Computer Science")
	p.CGPA = "8.5"
	p.Certifications = []string{"AWS"}
	return p
}

func TestRecommender_Predict(t *testing.T) {
	rec := newTestRecommender(t)
	defer rec.Close()
	ctx := context.Background()

	got, err := rec.Predict(ctx, "alice", testProfile())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// class 62 的权重全面占优，必然是首位
	if got.TopRecommendation.Role != "Software Engineer" {
		t.Errorf("top = %q, want Software Engineer", got.TopRecommendation.Role)
	}
	if len(got.AllPredictions) != 3 {
		t.Fatalf("len(AllPredictions) = %d, want 3", len(got.AllPredictions))
	}
	if len(got.Alternatives) != 2 {
		t.Fatalf("len(Alternatives) = %d, want 2", len(got.Alternatives))
	}
	if got.AllPredictions[0] != got.TopRecommendation {
		t.Error("AllPredictions[0] must equal TopRecommendation")
	}
	if got.Timestamp != "2026-08-28 10:30:00" {
		t.Errorf("timestamp = %q, want fixed clock rendering", got.Timestamp)
	}

	var sum float64
	for _, p := range got.AllPredictions {
		sum += p.Confidence
	}
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("sum(confidence) = %v, want ~100", sum)
	}

	// 预测已记账
	rows, err := rec.HistoryForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("HistoryForUser() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(rows))
	}
	if rows[0].Input.Degree != "B.Tech" {
		t.Errorf("entry input = %+v", rows[0].Input)
	}
}

func TestRecommender_PredictIdempotentHistory(t *testing.T) {
	rec := newTestRecommender(t)
	defer rec.Close()
	ctx := context.Background()

	if _, err := rec.Predict(ctx, "alice", testProfile()); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.Predict(ctx, "alice", testProfile()); err != nil {
		t.Fatal(err)
	}
	// 指纹变化产生新条目
	changed := testProfile()
	changed.CGPA = "9.0"
	if _, err := rec.Predict(ctx, "alice", changed); err != nil {
		t.Fatal(err)
	}

	rows, _ := rec.HistoryForUser(ctx, "alice")
	if len(rows) != 2 {
		t.Errorf("len(history) = %d, want 2", len(rows))
	}
}

func TestRecommender_PredictValidation(t *testing.T) {
	rec := newTestRecommender(t)
	defer rec.Close()

	p := &core.Profile{Degree: "B.Tech"} // 缺专业
	_, err := rec.Predict(context.Background(), "alice", p)
	if ve := core.GetValidationError(err); ve == nil {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	// 校验失败不得记账
	rows, _ := rec.HistoryForUser(context.Background(), "alice")
	if len(rows) != 0 {
		t.Errorf("len(history) = %d, want 0", len(rows))
	}
}

func TestRecommender_Recommend(t *testing.T) {
	rec := newTestRecommender(t)
	defer rec.Close()

	report, err := rec.Recommend(context.Background(), "alice", testProfile())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if report.Recommendation == nil {
		t.Fatal("missing recommendation")
	}
	if report.Insight == nil {
		t.Fatal("missing insight")
	}
	// 语料中 3 条 b.tech，2 条去向 Software Engineer
	want := "67% of candidates with a B.Tech background were hired as Software Engineer based on resume analysis."
	if report.Insight.Message != want {
		t.Errorf("insight = %q, want %q", report.Insight.Message, want)
	}
}

func TestRecommender_Latest(t *testing.T) {
	rec := newTestRecommender(t)
	defer rec.Close()
	ctx := context.Background()

	if _, err := rec.Latest(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("Latest() error = %v, want NOT_FOUND", err)
	}

	if _, err := rec.Predict(ctx, "alice", testProfile()); err != nil {
		t.Fatal(err)
	}
	latest, err := rec.Latest(ctx, "alice")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.UserID != "alice" {
		t.Errorf("latest user = %q", latest.UserID)
	}
}

func TestRecommender_Aggregates(t *testing.T) {
	rec := newTestRecommender(t)
	defer rec.Close()
	ctx := context.Background()

	rec.Predict(ctx, "alice", testProfile())
	bob := testProfile()
	bob.CGPA = "7.0"
	rec.Predict(ctx, "bob", bob)

	freq, err := rec.RoleFrequency(ctx)
	if err != nil {
		t.Fatalf("RoleFrequency() error = %v", err)
	}
	if freq["Software Engineer"] != 2 {
		t.Errorf("freq = %v, want Software Engineer=2", freq)
	}

	share, err := rec.RoleShare(ctx)
	if err != nil {
		t.Fatalf("RoleShare() error = %v", err)
	}
	if share["Software Engineer"] != 100.0 {
		t.Errorf("share = %v, want Software Engineer=100", share)
	}
}

type failingStore struct {
	core.HistoryStore
}

func (f *failingStore) Upsert(context.Context, *core.PredictionEntry) (bool, error) {
	return false, errors.New("disk on fire")
}

func TestRecommender_InternalErrorsAreOpaque(t *testing.T) {
	rec := newTestRecommender(t)
	rec.History = &failingStore{HistoryStore: rec.History}

	_, err := rec.Predict(context.Background(), "alice", testProfile())
	de := core.GetDomainError(err)
	if de == nil || de.Code != core.ErrorCodeInternalError {
		t.Fatalf("error = %v, want generic INTERNAL_ERROR", err)
	}
	// 内部细节不得出现在对外错误中
	if de.Message != "service: internal error" {
		t.Errorf("message = %q, leaked internals", de.Message)
	}
}
