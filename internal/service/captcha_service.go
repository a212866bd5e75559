package service

import (
	"strings"

	"github.com/dollers-electro/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge is one image captcha handed to the admin login page.
type CaptchaChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService issues and verifies the admin login image captcha.
type CaptchaService struct {
	enabled bool
	driver  *base64Captcha.DriverDigit
	store   base64Captcha.Store
}

// NewCaptchaService creates the captcha service backed by an in-memory store.
func NewCaptchaService(cfg *config.CaptchaConfig) *CaptchaService {
	length := 4
	width := 240
	height := 80
	maxStore := base64Captcha.GCLimitNumber
	enabled := false
	if cfg != nil {
		enabled = cfg.Enabled
		if cfg.Length > 0 {
			length = cfg.Length
		}
		if cfg.Width > 0 {
			width = cfg.Width
		}
		if cfg.Height > 0 {
			height = cfg.Height
		}
		if cfg.MaxStore > 0 {
			maxStore = cfg.MaxStore
		}
	}
	return &CaptchaService{
		enabled: enabled,
		driver:  base64Captcha.NewDriverDigit(height, width, length, 0.7, 80),
		store:   base64Captcha.NewMemoryStore(maxStore, base64Captcha.Expiration),
	}
}

// Enabled reports whether the admin login requires a captcha.
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.enabled
}

// Generate produces a new challenge.
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	captcha := base64Captcha.NewCaptcha(s.driver, s.store)
	id, b64, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{CaptchaID: id, ImageBase64: b64}, nil
}

// Verify burns a challenge. When the captcha is disabled every answer
// passes.
func (s *CaptchaService) Verify(id, answer string) error {
	if !s.Enabled() {
		return nil
	}
	id = strings.TrimSpace(id)
	answer = strings.TrimSpace(answer)
	if id == "" || answer == "" {
		return ErrInvalidCaptcha
	}
	if !s.store.Verify(id, answer, true) {
		return ErrInvalidCaptcha
	}
	return nil
}
