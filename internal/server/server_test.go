package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuels/dagview/pkg/cache"
	"github.com/mhuels/dagview/pkg/pipeline"
	"github.com/mhuels/dagview/pkg/store"
)

func testServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	st := store.NewMemoryStore()
	return New(runner, st, logger), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRenderExpression(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/render", RenderRequest{
		Expression: "a AND (b OR c)",
		Formats:    []string{"dot", "mermaid"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp RenderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", resp.Stats.NodeCount)
	}
	if resp.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if !strings.HasPrefix(string(resp.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact = %q, want digraph prefix", resp.Artifacts["dot"][:20])
	}
	if len(resp.Artifacts["mermaid"]) == 0 {
		t.Error("mermaid artifact is empty")
	}
	if resp.ID != "" {
		t.Errorf("ID = %q, want empty without save", resp.ID)
	}
}

func TestRenderMissingExpression(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/render", RenderRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRenderInvalidExpression(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/render", RenderRequest{
		Expression: "a AND",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body = %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestRenderAndSave(t *testing.T) {
	srv, st := testServer(t)
	rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/render", RenderRequest{
		Expression: "x XOR y",
		Formats:    []string{"dot"},
		Save:       true,
		Name:       "parity",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp RenderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("ID is empty after save")
	}

	rec, err := st.Get(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("Get(%q) = %v", resp.ID, err)
	}
	if rec.Name != "parity" {
		t.Errorf("Name = %q, want parity", rec.Name)
	}
	if rec.Source != "x XOR y" {
		t.Errorf("Source = %q, want the expression", rec.Source)
	}
	if rec.Graph == nil || len(rec.Graph.Nodes) != 3 {
		t.Error("saved graph missing or wrong size")
	}
}

func TestLayoutCRUD(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	rr := doJSON(t, h, http.MethodPost, "/api/layouts/", store.Record{
		Name:      "first",
		Source:    "a OR b",
		CreatedAt: time.Now().UTC(),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode save response: %v", err)
	}
	id := created["id"]
	if id == "" {
		t.Fatal("save returned empty id")
	}

	rr = doJSON(t, h, http.MethodGet, "/api/layouts/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var rec store.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Name != "first" {
		t.Errorf("Name = %q, want first", rec.Name)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/layouts/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var recs []*store.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("list length = %d, want 1", len(recs))
	}

	rr = doJSON(t, h, http.MethodDelete, "/api/layouts/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/layouts/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestGetLayoutNotFound(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/layouts/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
