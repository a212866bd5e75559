package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"github.com/google/uuid"
)

// NewsletterService manages mailing-list subscriptions.
type NewsletterService struct {
	subscriberRepo repository.NewsletterRepository
}

// NewNewsletterService creates the newsletter service.
func NewNewsletterService(subscriberRepo repository.NewsletterRepository) *NewsletterService {
	return &NewsletterService{subscriberRepo: subscriberRepo}
}

// Subscribe adds an address, reactivating a previously unsubscribed one.
func (s *NewsletterService) Subscribe(email string) (*models.NewsletterSubscriber, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(normalized); err != nil {
		return nil, ErrInvalidEmail
	}

	existing, err := s.subscriberRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == constants.NewsletterStatusSubscribed {
			return nil, ErrAlreadySubscribed
		}
		existing.Status = constants.NewsletterStatusSubscribed
		existing.SubscribedAt = time.Now()
		existing.UnsubscribedAt = nil
		if err := s.subscriberRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	sub := &models.NewsletterSubscriber{
		Email:        normalized,
		Status:       constants.NewsletterStatusSubscribed,
		Token:        uuid.NewString(),
		SubscribedAt: time.Now(),
	}
	if err := s.subscriberRepo.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe removes an address via its emailed token, no login needed.
func (s *NewsletterService) Unsubscribe(token string) error {
	sub, err := s.subscriberRepo.GetByToken(strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrInvalidUnsubscribeToken
	}
	if sub.Status == constants.NewsletterStatusUnsubscribed {
		return nil
	}
	now := time.Now()
	sub.Status = constants.NewsletterStatusUnsubscribed
	sub.UnsubscribedAt = &now
	return s.subscriberRepo.Update(sub)
}

// List returns subscribers for the admin console.
func (s *NewsletterService) List(filter repository.SubscriberListFilter) ([]models.NewsletterSubscriber, int64, error) {
	return s.subscriberRepo.List(filter)
}

// CountSubscribed exposes the active subscriber count for the dashboard.
func (s *NewsletterService) CountSubscribed() (int64, error) {
	return s.subscriberRepo.CountByStatus(constants.NewsletterStatusSubscribed)
}
