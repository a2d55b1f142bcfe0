package reminder

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailNotifier struct {
	sender Sender
	from   string
}

// NewEmailNotifier mails each reminder to the patient's registered address.
func NewEmailNotifier(sender Sender, from string) Notifier {
	return &emailNotifier{sender: sender, from: from}
}

// NewSMTPNotifier dials host:port with the given credentials for every reminder.
func NewSMTPNotifier(host string, port int, username, password, from string) Notifier {
	return NewEmailNotifier(gomail.NewDialer(host, port, username, password), from)
}

func (n *emailNotifier) Notify(_ context.Context, r Reminder) error {
	if r.Email == "" {
		return errors.New("patient has no email address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", r.Email)
	m.SetHeader("Subject", fmt.Sprintf("Appointment reminder: %s at %s", r.Appointment.Date, r.Appointment.Time))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nthis is a reminder of your appointment with %s on %s at %s (ref. %s).\n",
		r.PatientName, r.DoctorName, r.Appointment.Date, r.Appointment.Time, r.Appointment.ID,
	))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send reminder %s: %w", r.Appointment.ID, err)
	}
	return nil
}
