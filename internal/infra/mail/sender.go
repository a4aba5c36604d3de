package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

const dealWonTemplate = `<html>
  <body>
    <h2>Deal closed 🎉</h2>
    <p><strong>{{.LeadName}}</strong> just moved to the Deal column.</p>
    <p>Contact: {{.LeadEmail}}</p>
  </body>
</html>`

type dealWonData struct {
	LeadName  string
	LeadEmail string
}

// EmailSender notifies the sales inbox over SMTP when a deal is won.
type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

func NewEmailSender(host string, port int, user, password, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		To:       to,
	}
}

func (s *EmailSender) NotifyDealWon(leadName, leadEmail string) error {
	t, err := template.New("deal-won").Parse(dealWonTemplate)
	if err != nil {
		return fmt.Errorf("parse mail template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, dealWonData{LeadName: leadName, LeadEmail: leadEmail}); err != nil {
		return fmt.Errorf("render mail template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "no-reply@macracrm.com")
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Deal won: %s", leadName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send SMTP mail: %w", err)
	}
	return nil
}
