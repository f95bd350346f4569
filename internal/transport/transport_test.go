// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for the planner backend's chunk streams.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// TEST SERVER HELPERS
// =============================================================================

// ndjsonServer answers every request with the given NDJSON lines.
func ndjsonServer(t *testing.T, lines []string, capture *[][]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			body, _ := io.ReadAll(r.Body)
			*capture = append(*capture, body)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range lines {
			w.Write([]byte(line + "\n"))
		}
	}))
}

func testClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           baseURL,
		RequestsPerSecond: 1000, // Tests should not wait on the limiter
	})
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestClient_SendDeliversChunksInOrder(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"type":"text","content":"Hello"}`,
		`{"type":"people_tree","root_label":"People","subcategories":[]}`,
		`{"type":"text","content":"pick away"}`,
	}, nil)
	defer srv.Close()

	var got []chunk.Type
	err := testClient(srv.URL).Send(context.Background(), "plan a party", func(c chunk.Chunk) error {
		got = append(got, c.Type)
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, []chunk.Type{chunk.TypeText, chunk.TypeTree, chunk.TypeText}, got)
}

func TestClient_StreamSkipsMalformedAndBlankLines(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"type":"text","content":"ok"}`,
		`{"type":"text",`,
		``,
		`data: {"type":"text","content":"framed"}`,
	}, nil)
	defer srv.Close()

	var got []string
	err := testClient(srv.URL).Send(context.Background(), "x", func(c chunk.Chunk) error {
		got = append(got, c.TextContent())
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, []string{"ok", "framed"}, got)
}

func TestClient_CallbackErrorAbortsStream(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"type":"text","content":"a"}`,
		`{"type":"text","content":"b"}`,
	}, nil)
	defer srv.Close()

	abort := errors.New("stop here")
	seen := 0
	err := testClient(srv.URL).Send(context.Background(), "x", func(c chunk.Chunk) error {
		seen++
		return abort
	})

	require.ErrorIs(t, err, abort)
	require.Equal(t, 1, seen)
}

func TestClient_SubmitTreeSelectionsDefaultsMissingTrees(t *testing.T) {
	var bodies [][]byte
	srv := ndjsonServer(t, []string{`{"type":"text","content":"done"}`}, &bodies)
	defer srv.Close()

	people := []chunk.SerializedNode{{Label: "Food", Selected: true, Children: []chunk.SerializedNode{}}}
	err := testClient(srv.URL).SubmitTreeSelections(context.Background(), people, nil, func(chunk.Chunk) error {
		return nil
	})
	require.NoError(t, err)
	require.Len(t, bodies, 1)

	var req struct {
		PeopleTree []chunk.SerializedNode `json:"people_tree"`
		PlaceTree  []chunk.SerializedNode `json:"place_tree"`
	}
	require.NoError(t, json.Unmarshal(bodies[0], &req))
	require.Len(t, req.PeopleTree, 1)
	require.NotNil(t, req.PlaceTree, "missing place tree must be sent as an empty list")
	require.Empty(t, req.PlaceTree)
}

func TestClient_SubmitFormSendsFormBody(t *testing.T) {
	var bodies [][]byte
	srv := ndjsonServer(t, []string{`{"type":"text","content":"great"}`}, &bodies)
	defer srv.Close()

	form := chunk.TextForm{
		Address: chunk.TextField{Label: "Address", Content: "12 Main St"},
		Budget:  chunk.TextField{Label: "Budget", Content: "500"},
	}
	err := testClient(srv.URL).SubmitForm(context.Background(), form, func(chunk.Chunk) error {
		return nil
	})
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	require.True(t, strings.Contains(string(bodies[0]), "12 Main St"))
}

// =============================================================================
// ERROR HANDLING TESTS
// =============================================================================

func TestClient_BackendDown(t *testing.T) {
	client := testClient("http://127.0.0.1:1") // Nothing listens here

	err := client.Send(context.Background(), "x", func(chunk.Chunk) error { return nil })
	require.ErrorIs(t, err, ErrBackendDown)
}

func TestClient_HTTPErrorSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"no such conversation"}`))
	}))
	defer srv.Close()

	err := testClient(srv.URL).Send(context.Background(), "x", func(chunk.Chunk) error { return nil })
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
	require.Contains(t, clientErr.Message, "no such conversation")
}

func TestClient_ContextCancellationStopsStream(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"text","content":"first"}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		close(started)
		time.Sleep(5 * time.Second) // Hold the stream open
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := testClient(srv.URL).Send(ctx, "x", func(chunk.Chunk) error { return nil })
	require.Error(t, err)
}

func TestClient_CheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, testClient(srv.URL).CheckRunning(context.Background()))

	down := testClient("http://127.0.0.1:1")
	require.Error(t, down.CheckRunning(context.Background()))
}
