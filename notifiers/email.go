package notifiers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/barganito/barganito.api/models"
)

//go:embed templates/alert_email.html
var emailTemplates embed.FS

var alertTemplates = template.Must(template.New("emails").ParseFS(emailTemplates, "templates/*.html"))

type Mailer struct {
	smtpHost string
	smtpPort string
	from     string
	password string
	appBase  string
}

func NewMailer(smtpHost, smtpPort, from, password, appBase string) *Mailer {
	return &Mailer{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		from:     from,
		password: password,
		appBase:  strings.TrimRight(appBase, "/"),
	}
}

// AlertEmail renders the alert notification email for one message.
func (h *Mailer) AlertEmail(email string, msg Message) (models.Email, error) {
	var buf bytes.Buffer
	tmplData := struct {
		Title    string
		Body     string
		OfferURL string
	}{
		Title:    msg.Title,
		Body:     msg.Body,
		OfferURL: h.offerURL(msg.Link),
	}
	if err := alertTemplates.ExecuteTemplate(&buf, "alert_email.html", tmplData); err != nil {
		return models.Email{}, fmt.Errorf("render alert email template: %w", err)
	}

	return models.Email{
		To:      email,
		Subject: msg.Title,
		Body:    buf.String(),
	}, nil
}

func (h *Mailer) Send(mail models.Email) error {
	message := fmt.Sprintf(`From: Barganito <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, h.from, mail.To, mail.Subject, mail.Body)

	auth := smtp.PlainAuth("", h.from, h.password, h.smtpHost)
	addr := fmt.Sprintf("%s:%s", h.smtpHost, h.smtpPort)
	err := smtp.SendMail(addr, auth, h.from, []string{mail.To}, []byte(message))
	if err != nil {
		slog.Error("Failed to send email", "error", err)
		return err
	}

	slog.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}

func (h *Mailer) offerURL(link string) string {
	if h.appBase == "" || link == "" {
		return ""
	}

	return h.appBase + link
}
