package email

import (
	"fmt"
	"net/smtp"
	"os"
)

type ContactService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	to       string
}

func NewContactService() *ContactService {
	return &ContactService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
		to:       os.Getenv("CONTACT_EMAIL"),
	}
}

func (s *ContactService) SendContactMessage(name, replyTo, phone, message string) error {
	subject := "New contact form message"
	body := fmt.Sprintf(`Name: %s
Email: %s
Phone: %s

%s
`, name, replyTo, phone, message)

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Reply-To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", s.from, s.to, replyTo, subject, body)

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{s.to}, []byte(msg)); err != nil {
		return fmt.Errorf("could not send contact message: %v", err)
	}

	return nil
}
