package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"slide-coach/internal/models"
	"slide-coach/shared/config"
)

// Sender delivers completed alignment reports over SMTP.
type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// SendReport emails an alignment report: per-slide script sections with
// confidence plus coaching highlights.
func (s *Sender) SendReport(report *models.AlignmentReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if len(report.Matches) == 0 {
		return nil // Nothing to report
	}

	subject := fmt.Sprintf("Slide Coach - Alignment Ready for %d Slides (%s)",
		len(report.Matches), report.CompletedAt.Format("Jan 2, 2006"))

	body, err := s.generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.sendViaSMTP(subject, body)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

func (s *Sender) generateEmailBody(report *models.AlignmentReport) (string, error) {
	tmplStr := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Slide Alignment Report</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2196F3; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        .slide { background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 15px; }
        .confidence { font-weight: bold; color: #4CAF50; }
        .review { font-weight: bold; color: #FF9800; }
        .section { white-space: pre-wrap; margin-top: 8px; }
        .reasoning { font-size: 13px; color: #666; font-style: italic; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🎤 Slide Alignment Report</h1>
        <p>{{len .Matches}} slides • source: {{.Source}} • {{.CompletedAt.Format "Monday, January 2, 2006 at 3:04 PM"}}</p>
    </div>

    {{range .Matches}}
    <div class="slide">
        <h3>Slide {{.SlideNumber}}
            {{if .NeedsReview}}<span class="review">({{.Confidence}}% - needs review)</span>
            {{else}}<span class="confidence">({{.Confidence}}%)</span>{{end}}
        </h3>
        {{if .ScriptSection}}<div class="section">{{.ScriptSection}}</div>
        {{else}}<p><em>No script content assigned to this slide.</em></p>{{end}}
        {{if .Reasoning}}<p class="reasoning">{{.Reasoning}}</p>{{end}}
    </div>
    {{end}}

    <div class="footer">
        <p>Generated by Slide Coach • Practice well!</p>
    </div>
</body>
</html>
`

	tmpl, err := template.New("email").Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}
