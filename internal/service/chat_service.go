package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dollers-electro/internal/advisor"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
)

const advisorSystemPrompt = "You are the DollersElectro shopping assistant. " +
	"Answer briefly and only about the store's electronics catalog, shipping, " +
	"promotions and orders."

// ChatReply is the advisor's answer. Source distinguishes the model-backed
// path from the keyword fallback.
type ChatReply struct {
	Reply  string `json:"reply"`
	Source string `json:"source"` // model / fallback
}

// ChatService answers storefront questions. It keeps no conversation state;
// the client resends history with each request.
type ChatService struct {
	client      *advisor.Client
	productRepo repository.ProductRepository
}

// NewChatService creates the chat service.
func NewChatService(client *advisor.Client, productRepo repository.ProductRepository) *ChatService {
	return &ChatService{client: client, productRepo: productRepo}
}

// Ask forwards the conversation to the model endpoint, falling back to the
// keyword matcher when the endpoint is unset or errors.
func (s *ChatService) Ask(ctx context.Context, history []advisor.Message, question string) (*ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrAdvisorUnavailable
	}

	if s.client.Configured() {
		messages := make([]advisor.Message, 0, len(history)+2)
		messages = append(messages, advisor.Message{Role: "system", Content: advisorSystemPrompt})
		messages = append(messages, history...)
		messages = append(messages, advisor.Message{Role: "user", Content: question})

		reply, err := s.client.Complete(ctx, messages)
		if err == nil {
			return &ChatReply{Reply: reply, Source: "model"}, nil
		}
		logger.Warnw("advisor_completion_failed", "error", err)
	}

	reply, err := s.fallback(question)
	if err != nil {
		return nil, err
	}
	return &ChatReply{Reply: reply, Source: "fallback"}, nil
}

// fallback is a keyword matcher over the live catalog. It covers the intents
// customers actually ask about when the model endpoint is down.
func (s *ChatService) fallback(question string) (string, error) {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "shipping", "delivery", "ship"):
		return "We offer express delivery (15.00, 1-2 days), home delivery (5.00, 3-5 days) " +
			"and free store pickup. Shipping is charged at checkout based on the method you choose.", nil
	case containsAny(q, "promo", "discount", "coupon", "code", "sale"):
		return "You can apply a promo code in your cart before checkout. " +
			"The discount shows up immediately in the order summary.", nil
	case containsAny(q, "stock", "available", "in stock"):
		return s.answerStock(q)
	case containsAny(q, "cheap", "price", "cost", "under", "budget"):
		return s.answerPrice()
	case containsAny(q, "return", "refund"):
		return "Orders can be cancelled while they are pending, and refunds are available " +
			"for confirmed, processing and delivered orders through support.", nil
	default:
		return s.answerCatalog(q)
	}
}

func (s *ChatService) answerStock(q string) (string, error) {
	products, err := s.productRepo.ListActive()
	if err != nil {
		return "", err
	}
	for _, p := range products {
		if strings.Contains(q, strings.ToLower(p.Name)) {
			if p.InStock() {
				return fmt.Sprintf("%s is in stock (%d available) at %s.", p.Name, p.Stock, p.Price.Decimal.StringFixed(2)), nil
			}
			return fmt.Sprintf("%s is currently out of stock.", p.Name), nil
		}
	}
	return "Tell me which product you mean and I can check its availability.", nil
}

func (s *ChatService) answerPrice() (string, error) {
	products, err := s.productRepo.ListActive()
	if err != nil {
		return "", err
	}
	var cheapest *models.Product
	for i := range products {
		if !products[i].InStock() {
			continue
		}
		if cheapest == nil || products[i].Price.Decimal.LessThan(cheapest.Price.Decimal) {
			cheapest = &products[i]
		}
	}
	if cheapest == nil {
		return "Nothing is in stock right now, please check back soon.", nil
	}
	return fmt.Sprintf("Our most affordable in-stock item is %s at %s.",
		cheapest.Name, cheapest.Price.Decimal.StringFixed(2)), nil
}

func (s *ChatService) answerCatalog(q string) (string, error) {
	products, err := s.productRepo.ListActive()
	if err != nil {
		return "", err
	}
	matches := make([]string, 0, 3)
	for _, p := range products {
		name := strings.ToLower(p.Name)
		for _, word := range strings.Fields(q) {
			if len(word) >= 4 && strings.Contains(name, word) {
				matches = append(matches, fmt.Sprintf("%s (%s)", p.Name, p.Price.Decimal.StringFixed(2)))
				break
			}
		}
		if len(matches) == 3 {
			break
		}
	}
	if len(matches) > 0 {
		return "You might be looking for: " + strings.Join(matches, ", ") + ".", nil
	}
	return "I can help with products, prices, stock, shipping and promo codes. " +
		"What are you looking for?", nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
