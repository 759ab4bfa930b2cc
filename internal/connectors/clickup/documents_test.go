package clickup

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

const docsPath = "/api/v3/workspaces/9017833757/docs"

func TestClient_CreateShell(t *testing.T) {
	var got createDocRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, docsPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"8cr2e8x-2001","name":"Daily Standup — 2026-02-10"}`))
	}))

	id, err := c.CreateShell(context.Background(), domain.ShellRequest{
		Parent:  domain.Parent{ID: "90173963039", Type: domain.ParentSpace},
		Title:   "Daily Standup — 2026-02-10",
		Summary: "Standup notes from Google Meet (2026-02-10)",
		Body:    "# Daily Standup — 2026-02-10",
	})

	require.NoError(t, err)
	assert.Equal(t, "8cr2e8x-2001", id)
	assert.Equal(t, "Daily Standup — 2026-02-10", got.Name)
	assert.Equal(t, "Standup notes from Google Meet (2026-02-10)", got.Description)
	assert.Equal(t, "# Daily Standup — 2026-02-10", got.Content)
	assert.Equal(t, parentJSON{ID: "90173963039", Type: 4}, got.Parent)
}

func TestClient_CreateShellResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantID  string
		wantErr error
	}{
		{name: "top level", body: `{"id":"a"}`, wantID: "a"},
		{name: "data wrapper", body: `{"data":{"id":"b"}}`, wantID: "b"},
		{name: "no id", body: `{"name":"x"}`, wantErr: domain.ErrMalformedResponse},
		{name: "empty body", body: "", wantErr: domain.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))

			id, err := c.CreateShell(context.Background(), domain.ShellRequest{Title: "t"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestClient_ListDocuments(t *testing.T) {
	var cursors []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, docsPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "90176857901", q.Get("parent_id"))
		assert.Equal(t, "5", q.Get("parent_type"))
		cursors = append(cursors, q.Get("cursor"))

		if q.Get("cursor") == "" {
			_, _ = w.Write([]byte(`{"docs":[
				{"id":"d1","name":"Daily Standup — 2026-02-18","parent":{"id":"90176857901","type":5}},
				{"id":"other","name":"Elsewhere","parent":{"id":"123","type":5}}
			],"next_cursor":"c2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"docs":[
			{"id":"d2","name":"Daily Standup — 2026-02-17","parent":{"id":"90176857901","type":5}},
			{"id":"gone","name":"Deleted","parent":{"id":"90176857901","type":5},"deleted":true}
		]}`))
	}))

	docs, err := c.ListDocuments(context.Background(), domain.Parent{ID: "90176857901", Type: domain.ParentFolder})

	require.NoError(t, err)
	assert.Equal(t, []string{"", "c2"}, cursors)
	require.Len(t, docs, 2)
	assert.Equal(t, domain.TargetDocument{
		ID:     "d1",
		Name:   "Daily Standup — 2026-02-18",
		Parent: domain.Parent{ID: "90176857901", Type: domain.ParentFolder},
	}, docs[0])
	assert.Equal(t, "d2", docs[1].ID)
}

func TestClient_ListDocumentsRepeatedCursor(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[],"next_cursor":"same"}`))
	}))

	_, err := c.ListDocuments(context.Background(), domain.Parent{ID: "p", Type: domain.ParentFolder})

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
