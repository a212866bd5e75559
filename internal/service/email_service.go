package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
)

// ErrEmailDisabled is returned when SMTP sending is switched off.
var ErrEmailDisabled = errors.New("email sending disabled")

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendVerifyCode mails an OTP.
func (s *EmailService) SendVerifyCode(toEmail, code, purpose string) error {
	subject := "Your DollersElectro verification code"
	action := "verify your email"
	switch purpose {
	case constants.VerifyCodePurposeRegister:
		subject = "Your DollersElectro registration code"
		action = "finish creating your account"
	case constants.VerifyCodePurposeReset:
		subject = "Your DollersElectro password reset code"
		action = "reset your password"
	}
	body := fmt.Sprintf("Your verification code is %s.\n\nUse it to %s. The code expires shortly; do not share it.", code, action)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendOrderStatusEmail notifies a customer about an order event.
func (s *EmailService) SendOrderStatusEmail(toEmail string, order *models.Order, event string) error {
	if order == nil {
		return nil
	}
	var subject, line string
	switch event {
	case constants.OrderEventPaymentCompleted:
		subject = fmt.Sprintf("Order %s confirmed", order.OrderNo)
		line = "We received your payment and your order is confirmed."
	case constants.OrderEventShip:
		subject = fmt.Sprintf("Order %s shipped", order.OrderNo)
		line = "Your order is on its way."
		if order.TrackingNumber != "" {
			line += " Tracking number: " + order.TrackingNumber + "."
		}
	case constants.OrderEventDeliver:
		subject = fmt.Sprintf("Order %s delivered", order.OrderNo)
		line = "Your order has been delivered. Enjoy!"
	case constants.OrderEventCancel:
		subject = fmt.Sprintf("Order %s cancelled", order.OrderNo)
		line = "Your order has been cancelled. Any reserved items are back in stock."
	case constants.OrderEventRefund:
		subject = fmt.Sprintf("Order %s refunded", order.OrderNo)
		line = "Your refund of " + order.Total.Decimal.StringFixed(2) + " is being processed."
	default:
		subject = fmt.Sprintf("Order %s update", order.OrderNo)
		line = "Your order status changed to " + order.Status + "."
	}
	body := fmt.Sprintf("%s\n\nOrder number: %s\nTotal: %s", line, order.OrderNo, order.Total.Decimal.StringFixed(2))
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return errors.New("smtp not configured")
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := authenticate(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if err := authenticate(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := authenticate(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func authenticate(client *smtp.Client, auth smtp.Auth) error {
	if auth == nil {
		return nil
	}
	if ok, _ := client.Extension("AUTH"); !ok {
		return nil
	}
	return client.Auth(auth)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
