package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dollers-electro/internal/advisor"
	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/repository"
)

func TestAskUsesModelWhenConfigured(t *testing.T) {
	db := newServiceTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Sure, the keyboard is great."}},
			},
		})
	}))
	defer srv.Close()

	client := advisor.NewClient(&config.AdvisorConfig{Endpoint: srv.URL})
	svc := NewChatService(client, repository.NewProductRepository(db))

	reply, err := svc.Ask(context.Background(), nil, "Is the keyboard any good?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply.Source != "model" {
		t.Errorf("source = %q, want model", reply.Source)
	}
	if reply.Reply != "Sure, the keyboard is great." {
		t.Errorf("reply = %q", reply.Reply)
	}
}

func TestAskFallsBackWhenEndpointFails(t *testing.T) {
	db := newServiceTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := advisor.NewClient(&config.AdvisorConfig{Endpoint: srv.URL})
	svc := NewChatService(client, repository.NewProductRepository(db))

	reply, err := svc.Ask(context.Background(), nil, "How much is shipping?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply.Source != "fallback" {
		t.Errorf("source = %q, want fallback", reply.Source)
	}
	if !strings.Contains(reply.Reply, "express delivery") {
		t.Errorf("reply = %q, want the shipping answer", reply.Reply)
	}
}

func TestAskFallbackIntents(t *testing.T) {
	db := newServiceTestDB(t)
	seedOrderProduct(t, db, "CHAT-SPK", "59.90", 7)
	svc := NewChatService(advisor.NewClient(nil), repository.NewProductRepository(db))

	cases := []struct {
		question string
		want     string
	}{
		{"what about shipping?", "express delivery"},
		{"do you have a discount code?", "promo code"},
		{"can I get a refund?", "refunds"},
		{"what is your cheapest item?", "most affordable"},
	}
	for _, tc := range cases {
		reply, err := svc.Ask(context.Background(), nil, tc.question)
		if err != nil {
			t.Fatalf("Ask(%q) error = %v", tc.question, err)
		}
		if reply.Source != "fallback" {
			t.Errorf("Ask(%q) source = %q, want fallback", tc.question, reply.Source)
		}
		if !strings.Contains(reply.Reply, tc.want) {
			t.Errorf("Ask(%q) = %q, want mention of %q", tc.question, reply.Reply, tc.want)
		}
	}
}

func TestAskFallbackChecksCatalogStock(t *testing.T) {
	db := newServiceTestDB(t)
	product := seedOrderProduct(t, db, "CHAT-STK", "19.00", 3)
	svc := NewChatService(advisor.NewClient(nil), repository.NewProductRepository(db))

	reply, err := svc.Ask(context.Background(), nil, "is the "+product.Name+" in stock?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(reply.Reply, "in stock (3 available)") {
		t.Errorf("reply = %q, want stock count", reply.Reply)
	}

	// Named product search through the default catalog branch.
	reply, err = svc.Ask(context.Background(), nil, "looking for a product")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(reply.Reply, product.Name) {
		t.Errorf("reply = %q, want a catalog match for %q", reply.Reply, product.Name)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewChatService(advisor.NewClient(nil), repository.NewProductRepository(db))

	if _, err := svc.Ask(context.Background(), nil, "   "); !errors.Is(err, ErrAdvisorUnavailable) {
		t.Errorf("blank question error = %v, want ErrAdvisorUnavailable", err)
	}
}
