package sightengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"casefile-backend/internal/detector"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New("user", "secret")
	c.baseURL = server.URL
	c.httpClient = server.Client()
	return c
}

func TestDetectSuccess(t *testing.T) {
	var gotModels, gotUser string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModels = r.FormValue("models")
		gotUser = r.FormValue("api_user")
		if _, _, err := r.FormFile("media"); err != nil {
			t.Fatalf("media part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","type":{"ai_generated":0.9}}`))
	})

	v := c.Detect(context.Background(), strings.NewReader("imagebytes"), "scene.jpg")
	if v == nil {
		t.Fatalf("expected verdict, got nil")
	}
	if gotModels != "genai" {
		t.Fatalf("models field = %q, want genai", gotModels)
	}
	if gotUser != "user" {
		t.Fatalf("api_user field = %q, want user", gotUser)
	}
	if v.Verdict != detector.LabelAIGenerated {
		t.Fatalf("verdict = %q, want AI-GENERATED", v.Verdict)
	}
	if v.AIScore != 90 || v.RealScore != 10 {
		t.Fatalf("scores = %v/%v, want 90/10", v.AIScore, v.RealScore)
	}
	if v.Model != ModelName {
		t.Fatalf("model = %q, want %q", v.Model, ModelName)
	}
}

func TestDetectUnexpectedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "failure status", body: `{"status":"failure"}`},
		{name: "missing type", body: `{"status":"success"}`},
		{name: "missing score", body: `{"status":"success","type":{}}`},
		{name: "api error", body: `{"status":"failure","error":{"type":"usage_limit","message":"quota"}}`},
		{name: "not json", body: `<html>502</html>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			if v := c.Detect(context.Background(), strings.NewReader("x"), "a.jpg"); v != nil {
				t.Fatalf("expected nil verdict, got %+v", v)
			}
		})
	}
}

func TestDetectTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	// Point at a closed server to force a connection error.
	c.baseURL = "http://127.0.0.1:1"

	if v := c.Detect(context.Background(), strings.NewReader("x"), "a.jpg"); v != nil {
		t.Fatalf("expected nil verdict on transport failure, got %+v", v)
	}
}

func TestDetectDisabledWithoutCredentials(t *testing.T) {
	c := New("", "")
	if c.Enabled() {
		t.Fatalf("client without credentials must be disabled")
	}
	if v := c.Detect(context.Background(), strings.NewReader("x"), "a.jpg"); v != nil {
		t.Fatalf("disabled client must return nil, got %+v", v)
	}
}
