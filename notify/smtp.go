package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Prabhu6626/Glonix-Website/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SMTPSender delivers notification emails over plain SMTP with AUTH.
type SMTPSender struct {
	Server    string
	Port      int
	Username  string
	Password  string
	From      string
	AdminAddr string // contact form alerts go here
}

func (s *SMTPSender) Send(ev Event) error {
	var to, subject, body string

	switch ev.Kind {
	case "order_confirmed":
		to = ev.Email
		subject = fmt.Sprintf("Order %s confirmed", ev.OrderNumber)
		body = fmt.Sprintf(
			"Thank you for your order!\r\n\r\n"+
				"Order number: %s\r\n"+
				"Amount paid: %.2f %s\r\n\r\n"+
				"You can track your order from your account page.\r\n",
			ev.OrderNumber, utils.MajorUnits(ev.TotalMinor), ev.Currency)
	case "contact_message":
		to = s.AdminAddr
		subject = fmt.Sprintf("Contact form: %s", ev.Subject)
		body = fmt.Sprintf(
			"From: %s <%s>\r\n\r\n%s\r\n", ev.Name, ev.Email, ev.Message)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	if to == "" {
		return fmt.Errorf("%s event has no recipient", ev.Kind)
	}

	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.Server, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Server)
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// MongoUserEmails resolves user IDs against the users collection.
type MongoUserEmails struct {
	Users *mongo.Collection
}

func (m *MongoUserEmails) EmailForUser(ctx context.Context, userID string) (string, error) {
	var doc struct {
		Email string `bson:"email"`
	}
	err := m.Users.FindOne(ctx, bson.M{"userid": userID}).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("lookup user %s: %w", userID, err)
	}
	return doc.Email, nil
}
