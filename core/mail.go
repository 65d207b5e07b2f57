package core

// Message is a rendered notification email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers notification messages. Sends are best-effort: callers
// fire them off the request path and only log failures.
type Mailer interface {
	Send(msg Message) error
}
