package models

type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Read    bool   `json:"read"`
}

type NewMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MessageUpdate carries a partial update; nil fields are left unchanged.
type MessageUpdate struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	Read    *bool   `json:"read"`
}

func (m Message) Apply(u MessageUpdate) Message {
	if u.Subject != nil {
		m.Subject = *u.Subject
	}
	if u.Body != nil {
		m.Body = *u.Body
	}
	if u.Read != nil {
		m.Read = *u.Read
	}
	return m
}
