package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsheet/formatter/internal/contact"
)

func sampleRecords() []contact.Record {
	return []contact.Record{
		{FirstName: "jane", LastName: "doe", Email: "jane@example.com", BorrowerStage: contact.StageProspect},
		{FirstName: "Bob", LastName: "Smith", Phone: "5550100", BorrowerStage: contact.StageClient},
	}
}

// completionServer returns an httptest server whose chat endpoint
// replies with the given message content.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
}

func TestEnhance_AppliesCleanedRecords(t *testing.T) {
	cleaned := envelope{Contacts: []contact.Record{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", BorrowerStage: contact.StageProspect},
		{FirstName: "Bob", LastName: "Smith", Phone: "555-0100", BorrowerStage: contact.StageClient},
	}}
	content, err := json.Marshal(cleaned)
	require.NoError(t, err)

	srv := completionServer(t, string(content))
	defer srv.Close()

	got, applied := newTestClient(srv.URL).Enhance(context.Background(), sampleRecords())
	assert.True(t, applied)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane", got[0].FirstName)
	assert.Equal(t, "555-0100", got[1].Phone)
}

func TestEnhance_ScrubsMarkdownFences(t *testing.T) {
	cleaned := envelope{Contacts: sampleRecords()}
	payload, err := json.Marshal(cleaned)
	require.NoError(t, err)

	srv := completionServer(t, "```json\n"+string(payload)+"\n```")
	defer srv.Close()

	got, applied := newTestClient(srv.URL).Enhance(context.Background(), sampleRecords())
	assert.True(t, applied)
	assert.Len(t, got, 2)
}

func TestEnhance_ScrubsChatterPrefix(t *testing.T) {
	cleaned := envelope{Contacts: sampleRecords()}
	payload, err := json.Marshal(cleaned)
	require.NoError(t, err)

	srv := completionServer(t, "Here is the cleaned data:\n"+string(payload))
	defer srv.Close()

	_, applied := newTestClient(srv.URL).Enhance(context.Background(), sampleRecords())
	assert.True(t, applied)
}

func TestEnhance_InvalidStagesRevertToDefault(t *testing.T) {
	cleaned := envelope{Contacts: sampleRecords()}
	cleaned.Contacts[0].BorrowerStage = "Hot Lead"
	payload, err := json.Marshal(cleaned)
	require.NoError(t, err)

	srv := completionServer(t, string(payload))
	defer srv.Close()

	got, applied := newTestClient(srv.URL).Enhance(context.Background(), sampleRecords())
	require.True(t, applied)
	assert.Equal(t, contact.StageProspect, got[0].BorrowerStage)
	assert.Equal(t, contact.StageClient, got[1].BorrowerStage)
}

func TestEnhance_FallbackKeepsInputUnchanged(t *testing.T) {
	in := sampleRecords()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
		},
		{
			name: "garbage content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices":[{"message":{"content":"not json at all"}}]}`)
			},
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices":[{"message":{"content":""}}]}`)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices":[]}`)
			},
		},
		{
			name: "wrong record count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"contacts\":[{\"firstName\":\"Only\"}]}"}}]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got, applied := newTestClient(srv.URL).Enhance(context.Background(), in)
			assert.False(t, applied)
			assert.Equal(t, in, got, "fallback must hand back the mapped records untouched")
		})
	}
}

func TestEnhance_NetworkFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	in := sampleRecords()
	got, applied := newTestClient(srv.URL).Enhance(context.Background(), in)
	assert.False(t, applied)
	assert.Equal(t, in, got)
}

func TestEnhance_DisabledWithoutKey(t *testing.T) {
	c := NewClient(Options{Model: "gpt-4o-mini"})
	assert.False(t, c.Enabled())

	in := sampleRecords()
	got, applied := c.Enhance(context.Background(), in)
	assert.False(t, applied)
	assert.Equal(t, in, got)
}

func TestEnhance_EmptyDatasetSkipsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty dataset")
	}))
	defer srv.Close()

	got, applied := newTestClient(srv.URL).Enhance(context.Background(), nil)
	assert.False(t, applied)
	assert.Empty(t, got)
}
