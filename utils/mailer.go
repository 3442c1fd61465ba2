package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"gopkg.in/gomail.v2"

	"tiffycooks/config"
)

type EmailData struct {
	Subject   string
	To        []string
	Template  string
	Data      interface{}
	FromName  string
	FromEmail string
}

// Mailer abstracts outbound email so production and tests swap
// implementations by construction.
type Mailer interface {
	Send(data EmailData) error
}

// Embedded email templates
var emailTemplates = map[string]string{
	"team_invite": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Team Invitation</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; padding: 10px 20px; background-color: #e67e22; color: white; text-decoration: none; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You're invited to join {{.TeamName}}</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterName}} has invited you to join the team <strong>{{.TeamName}}</strong> on {{.AppName}}.</p>

        <p style="text-align: center;">
            <a href="{{.InviteLink}}" class="button">Accept Invitation</a>
        </p>

        <p>This invitation expires in 7 days.</p>

        <p>Or copy and paste this link into your browser:<br>
        <small>{{.InviteLink}}</small></p>
    </div>

    <div class="footer">
        <p>If you weren't expecting this invitation, you can safely ignore this email.</p>
    </div>
</body>
</html>`,

	"meeting_request": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Meeting Request</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .message { background: #f8f9fa; border-left: 3px solid #e67e22; padding: 10px 15px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>New Meeting Request</h2>
    </div>

    <div class="content">
        <p><strong>{{.UserName}}</strong> ({{.UserEmail}}) requested a meeting.</p>
        {{if .TeamName}}<p>Team: {{.TeamName}}</p>{{end}}

        <div class="message">{{.Message}}</div>
    </div>

    <div class="footer">
        <p>Sent from the {{.AppName}} proposal page.</p>
    </div>
</body>
</html>`,
}

// SMTPMailer sends templated mail through the configured SMTP relay.
type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

func (m *SMTPMailer) Send(data EmailData) error {
	body, err := renderTemplate(data)
	if err != nil {
		return err
	}

	if data.FromEmail == "" {
		data.FromEmail = config.AppConfig.FromEmail
	}
	if data.FromName == "" {
		data.FromName = config.AppConfig.FromName
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", data.FromName, data.FromEmail))
	msg.SetHeader("To", data.To...)
	msg.SetHeader("Subject", data.Subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// MemoryMailer captures sends without transmitting anything. Used in
// tests and when MOCK_EMAIL is set.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []EmailData
}

func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) Send(data EmailData) error {
	// Render up front so template mistakes still surface in mock mode
	if _, err := renderTemplate(data); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

func (m *MemoryMailer) Sent() []EmailData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailData, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MemoryMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

func renderTemplate(data EmailData) (string, error) {
	tmplContent, ok := emailTemplates[data.Template]
	if !ok {
		return "", fmt.Errorf("template '%s' not found", data.Template)
	}

	tmpl, err := template.New("email").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("error parsing template: %v", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data.Data); err != nil {
		return "", fmt.Errorf("error executing template: %v", err)
	}
	return body.String(), nil
}
