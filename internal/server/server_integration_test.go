package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/minsukim/jikimi/internal/store"
)

func TestAPI_LabelWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a danger label
	createBody := `{"name": "escalator", "class": "danger"}`
	resp, err := client.Post(ts.URL+"/api/labels", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/labels error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Class string `json:"class"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Name != "escalator" || created.Class != "danger" {
		t.Errorf("created = %+v, want escalator/danger", created)
	}

	// 2. List labels, the new one must appear alongside the seeded catalog
	resp, err = client.Get(ts.URL + "/api/labels")
	if err != nil {
		t.Fatalf("GET /api/labels error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/labels status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Labels []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Class string `json:"class"`
		} `json:"labels"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	found := false
	for _, l := range listed.Labels {
		if l.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("created label missing from list")
	}

	// 3. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/labels/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	// 4. Fetching it again is a 404
	resp, err = client.Get(ts.URL + "/api/labels/" + created.ID)
	if err != nil {
		t.Fatalf("GET after delete error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	// 5. The event log starts empty
	resp, err = client.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET /api/events error = %v", err)
	}
	var events struct {
		Events []struct {
			ID string `json:"id"`
		} `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()
	if len(events.Events) != 0 {
		t.Errorf("fresh store has %d events, want 0", len(events.Events))
	}
}
