package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
}

func NewEmailService() *EmailService {
	return &EmailService{
		apiKey:      os.Getenv("RESEND_API_KEY"),
		fromEmail:   os.Getenv("FROM_EMAIL"),
		frontendURL: os.Getenv("FRONTEND_URL"),
	}
}

// SendVerificationEmail mails the signup confirmation link.
func (s *EmailService) SendVerificationEmail(to, name, token string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	verifyURL := fmt.Sprintf("%s/auth/verify?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #6366f1 0%%, #4338ca 100%%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; }
        .button { display: inline-block; background: #6366f1; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>♟️ Bienvenue sur ChessManager</h1>
        </div>
        <div class="content">
            <p>Bonjour %s,</p>
            <p>Confirmez votre adresse email pour activer la gestion de votre club.</p>
            <a href="%s" class="button">Confirmer mon email</a>
            <p style="color: #e74c3c; margin-top: 30px;">⚠️ Ce lien expire dans 24 heures.</p>
        </div>
    </div>
</body>
</html>
	`, name, verifyURL)

	return s.send(to, "Confirmez votre adresse email", htmlBody)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	payload := map[string]interface{}{
		"from":    fmt.Sprintf("ChessManager <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}

	return nil
}
