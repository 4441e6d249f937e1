package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"ideascout/internal/models"
	"ideascout/shared/config"
)

const digestTemplate = `<html>
<body style="font-family: sans-serif;">
<h2>Trend Scout: {{.Appended}} new content ideas for &quot;{{.Keyword}}&quot;</h2>
<p>{{.Fetched}} videos fetched, {{.Skipped}} already recorded.</p>
{{range .Analyses}}
<div style="margin-bottom: 16px;">
  <h3><a href="{{.Video.URL}}">{{.Video.Title}}</a></h3>
  <p><em>{{.Video.ChannelTitle}} &middot; {{.Video.PublishedAt}}</em></p>
  <p>{{.Ideas}}</p>
</div>
{{end}}
</body>
</html>`

// Sender delivers the optional per-run digest over SMTP.
type Sender struct {
	config *config.EmailConfig
	tmpl   *template.Template
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
		tmpl:   template.Must(template.New("digest").Parse(digestTemplate)),
	}
}

// SendDigest emails a summary of the rows appended in one run. Reports with
// no analyses are skipped silently.
func (s *Sender) SendDigest(report *models.RunReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if len(report.Analyses) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Trend Scout Digest - %d Ideas for %q (%s)",
		len(report.Analyses), report.Keyword, report.Date.Format("Jan 2, 2006"))

	var body bytes.Buffer
	data := struct {
		*models.RunReport
		Appended int
	}{report, len(report.Analyses)}
	if err := s.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render digest body: %w", err)
	}

	return s.sendViaSMTP(subject, body.String())
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
