package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	gomail "gopkg.in/mail.v2"
)

// SMTPMailer sends templated mail over plain SMTP. Sends are retried a
// few times; callers treat receipt mail as best effort either way.
type SMTPMailer struct {
	fromEmail string
	host      string
	port      int
	username  string
	password  string
}

func NewSMTP(fromEmail, host string, port int, username, password string) (*SMTPMailer, error) {
	if fromEmail == "" {
		return nil, fmt.Errorf("mailer: from address is required")
	}
	if host == "" {
		return nil, fmt.Errorf("mailer: smtp host is required")
	}
	return &SMTPMailer{
		fromEmail: fromEmail,
		host:      host,
		port:      port,
		username:  username,
		password:  password,
	}, nil
}

func (m *SMTPMailer) Send(templateFile, username, email string, data any) (int, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return -1, fmt.Errorf("parse template %s: %w", templateFile, err)
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return -1, err
	}
	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return -1, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", FromName, m.fromEmail))
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := dialer.DialAndSend(msg); err != nil {
			lastErr = err
			time.Sleep(time.Second * time.Duration(i+1))
			continue
		}
		return http.StatusOK, nil
	}
	return -1, fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
