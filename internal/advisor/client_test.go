package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dollers-electro/internal/config"
)

func TestCompleteReturnsAssistantReply(t *testing.T) {
	var gotAuth string
	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  The speaker ships tomorrow.  "}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(&config.AdvisorConfig{Endpoint: srv.URL, APIKey: "key-1", Model: "gpt-4o-mini"})
	reply, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "When does the speaker ship?"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "The speaker ships tomorrow." {
		t.Errorf("reply = %q, want trimmed assistant content", reply)
	}
	if gotAuth != "Bearer key-1" {
		t.Errorf("authorization = %q, want Bearer key-1", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 1 {
		t.Errorf("request = %+v, want model and one message", gotReq)
	}
}

func TestCompleteErrors(t *testing.T) {
	unconfigured := NewClient(nil)
	if unconfigured.Configured() {
		t.Error("nil config reported configured")
	}
	if _, err := unconfigured.Complete(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("unconfigured error = %v, want ErrNotConfigured", err)
	}

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}},
		{"api error payload", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"error": map[string]string{"message": "quota exceeded"}})
		}},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			client := NewClient(&config.AdvisorConfig{Endpoint: srv.URL})
			if _, err := client.Complete(context.Background(), nil); err == nil {
				t.Error("Complete() returned nil error")
			}
		})
	}
}
