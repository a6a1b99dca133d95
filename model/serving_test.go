package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rushteam/careerkit/core"
)

func newServingStub(t *testing.T, metadata string, predict func(instances []map[string]float64) any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/job_model/metadata", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(metadata))
	})
	mux.HandleFunc("/v1/models/job_model:predict", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Instances []map[string]float64 `json:"instances"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(predict(req.Instances))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestServingClient_PredictProba(t *testing.T) {
	var gotInstances []map[string]float64
	srv := newServingStub(t, `{"classes":[18,62,71]}`, func(instances []map[string]float64) any {
		gotInstances = instances
		return map[string]any{"predictions": [][]float64{{0.2, 0.5, 0.3}}}
	})

	c, err := NewServingClient(srv.URL, "job_model")
	if err != nil {
		t.Fatalf("NewServingClient() error = %v", err)
	}
	if got := c.Classes(); len(got) != 3 || got[1] != 62 {
		t.Errorf("Classes() = %v", got)
	}

	probs, err := c.PredictProba(context.Background(), map[int]float64{12: 0.5, 40: 0.3})
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if len(probs) != 3 || probs[1] != 0.5 {
		t.Errorf("probs = %v", probs)
	}

	// 稀疏特征以字符串索引上送
	if len(gotInstances) != 1 {
		t.Fatalf("instances = %v", gotInstances)
	}
	if gotInstances[0]["12"] != 0.5 || gotInstances[0]["40"] != 0.3 {
		t.Errorf("instance = %v", gotInstances[0])
	}
}

func TestServingClient_MetadataFailureIsUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
	}{
		{"empty classes", `{"classes":[]}`},
		{"malformed body", `{nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServingStub(t, tt.metadata, nil)
			if _, err := NewServingClient(srv.URL, "job_model"); !core.IsUnavailable(err) {
				t.Errorf("error = %v, want UNAVAILABLE", err)
			}
		})
	}

	t.Run("unreachable endpoint", func(t *testing.T) {
		if _, err := NewServingClient("http://127.0.0.1:1", "job_model"); !core.IsUnavailable(err) {
			t.Errorf("error = %v, want UNAVAILABLE", err)
		}
	})
}

func TestServingClient_PredictShapeMismatch(t *testing.T) {
	srv := newServingStub(t, `{"classes":[18,62]}`, func([]map[string]float64) any {
		return map[string]any{"predictions": [][]float64{{0.2, 0.5, 0.3}}}
	})
	c, err := NewServingClient(srv.URL, "job_model")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.PredictProba(context.Background(), map[int]float64{0: 1}); err == nil {
		t.Error("expected error on probability count mismatch")
	}
}
