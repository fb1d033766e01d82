package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hotelbooking/internal/domain"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Sender delivers transactional mail through the Brevo HTTP API. With no API
// key configured it degrades to logging the would-be send, which keeps local
// development working without credentials.
type Sender struct {
	apiKey      string
	senderEmail string
	senderName  string
	users       userLookup
	httpClient  *http.Client
	loggerf     func(format string, args ...interface{})
}

func NewSender(apiKey, senderEmail, senderName string, users userLookup, loggerf func(format string, args ...interface{})) *Sender {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Sender{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		users:       users,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		loggerf:     loggerf,
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *Sender) SendBookingConfirmation(ctx context.Context, b *domain.Booking) error {
	u, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		return fmt.Errorf("resolve booking recipient: %w", err)
	}

	subject := fmt.Sprintf("Booking #%d confirmed", b.ID)
	body := fmt.Sprintf(
		"<h1>Your booking is confirmed</h1><p>Booking <b>#%d</b> from %s to %s is paid and confirmed.</p><p>Total: %d VND</p>",
		b.ID,
		b.StartDate.Format("02 Jan 2006"),
		b.EndDate.Format("02 Jan 2006"),
		b.TotalPrice,
	)
	return s.send(ctx, u.Email, u.FullName, subject, body)
}

func (s *Sender) send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %q", toEmail)
	}

	if s.apiKey == "" {
		s.loggerf("level=info msg=email sending disabled, skipping to=%s subject=%q", toEmail, subject)
		return nil
	}

	if toName == "" {
		toName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.senderName, "email": s.senderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email provider rejected send: status=%d body=%s", resp.StatusCode, respBody)
	}

	s.loggerf("level=info msg=email sent to=%s subject=%q", toEmail, subject)
	return nil
}
