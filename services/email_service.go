package services

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender delivers transactional mail. Delivery is best-effort: callers
// log failures and never roll back purchase state over them.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPSender(host, port, username, password string) (*SMTPSender, error) {
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if username == "" {
		return nil, fmt.Errorf("SMTP_USER not set")
	}
	if password == "" {
		return nil, fmt.Errorf("SMTP_PASS not set")
	}
	return &SMTPSender{host, port, username, password}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := []byte(
		"From: " + s.username + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, s.username, []string{to}, msg); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// PurchaseEmail renders the fulfillment message sent after a completed
// checkout, pointing the buyer at the gated download link.
func PurchaseEmail(productTitle, downloadURL string, maxDownloads int) (subject, body string) {
	subject = fmt.Sprintf("Your purchase: %s", productTitle)
	body = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #e91e63; text-align: center;">Thank you for your purchase!</h1>
  <p style="font-size: 16px;">You have successfully purchased: <strong>%s</strong></p>
  <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; text-align: center;">
    <h3 style="color: #333; margin-bottom: 15px;">Download your product:</h3>
    <a href="%s" style="background: #e91e63; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; font-weight: bold;">Download Now</a>
  </div>
  <div style="background: #e8f5e8; padding: 15px; border-radius: 6px; margin: 20px 0;">
    <p style="margin: 0; font-size: 14px; color: #2d5a2d;">
      <strong>Important Information:</strong><br>
      &bull; This download link expires in 30 days<br>
      &bull; You can download the product up to %d times<br>
      &bull; Please keep this email for future reference
    </p>
  </div>
</div>`, productTitle, downloadURL, maxDownloads)
	return subject, body
}

// FreeDownloadEmail renders the message for the unpaid fulfillment path.
func FreeDownloadEmail(productTitle, downloadURL string) (subject, body string) {
	subject = fmt.Sprintf("Your free download: %s", productTitle)
	body = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #e91e63; text-align: center;">Here is your free download</h1>
  <p style="font-size: 16px;">You requested: <strong>%s</strong></p>
  <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; text-align: center;">
    <a href="%s" style="background: #e91e63; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; font-weight: bold;">Download Now</a>
  </div>
</div>`, productTitle, downloadURL)
	return subject, body
}
