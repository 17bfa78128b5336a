package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestClient_GetDecodesAndSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/holidays/check" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-10-19" {
			t.Errorf("date param = %q", got)
		}
		if r.Header.Get("Accept") != "application/json" || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing json headers: %v", r.Header)
		}
		if r.Header.Get("Authorization") != "Bearer tok123" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"is_holiday": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, nil)
	var out struct {
		IsHoliday bool `json:"is_holiday"`
	}
	ctx := WithToken(context.Background(), "tok123")
	if err := c.Get(ctx, "/holidays/check", url.Values{"date": {"2026-10-19"}}, &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !out.IsHoliday {
		t.Errorf("IsHoliday = false, want true")
	}
}

func TestClient_PostEncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["origin"] != "Pamplona" {
			t.Errorf("origin = %v", body["origin"])
		}
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.Post(context.Background(), "/trips/estimate", map[string]any{"origin": "Pamplona"}, &out); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if !out.Success {
		t.Errorf("Success = false")
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		timeout     time.Duration
		wantAPI     bool
		wantMessage string
		wantHasMsg  bool
		wantIs      error
	}{
		{
			name: "structured error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"message": "Fecha no disponible"}`))
			},
			timeout:     time.Second,
			wantAPI:     true,
			wantMessage: "Fecha no disponible",
			wantHasMsg:  true,
		},
		{
			name: "non json error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`<html>bad gateway</html>`))
			},
			timeout:     time.Second,
			wantAPI:     true,
			wantMessage: defaultErrorMessage,
		},
		{
			name: "undecodable success body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			timeout: time.Second,
			wantIs:  ErrNetwork,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout: 20 * time.Millisecond,
			wantIs:  ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, tt.timeout, nil)
			var out map[string]any
			err := c.Get(context.Background(), "/x", nil, &out)
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *APIError
			if tt.wantAPI {
				if !errors.As(err, &apiErr) {
					t.Fatalf("error %v is not *APIError", err)
				}
				if apiErr.Message != tt.wantMessage {
					t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
				}
				if apiErr.HasMessage() != tt.wantHasMsg {
					t.Errorf("HasMessage() = %v, want %v", apiErr.HasMessage(), tt.wantHasMsg)
				}
				return
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want errors.Is %v", err, tt.wantIs)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, time.Second, nil)
	err := c.Get(context.Background(), "/x", nil, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
}
