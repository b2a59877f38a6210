package mail

import "time"

type AlertEmailData struct {
	Resource   string
	Message    string
	OccurredAt string
	Dashboard  string
}

// Dialer é o pedaço do gomail.Dialer que o envio usa.
type Dialer interface {
	DialAndSend(m ...*Message) error
}

type AlertSender struct {
	From      string
	To        []string
	Dashboard string
	dialer    Dialer
	now       func() time.Time
}
