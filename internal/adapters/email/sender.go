// Package email delivers broadcast emails. Every recipient gets a private copy,
// so member addresses are never exposed to each other.
package email

import (
	"context"
	"time"
)

// MaxBatch is the largest number of copies sent per provider call.
const MaxBatch = 100

// Message is the content of one broadcast.
type Message struct {
	Subject string
	HTML    string // rendered from the broadcast markdown
	Text    string // the markdown itself, for plain-text clients
	ReplyTo string
}

// Report summarises a broadcast. On error, Sent counts the copies accepted before the failure.
type Report struct {
	Sent       int
	MessageIDs []string
	FinishedAt time.Time
}

// Sender delivers a Message to each address in to.
type Sender interface {
	Broadcast(ctx context.Context, msg Message, to []string) (Report, error)
}

// batches splits to into runs of at most size addresses.
func batches(to []string, size int) [][]string {
	var out [][]string
	for len(to) > size {
		out = append(out, to[:size])
		to = to[size:]
	}
	if len(to) > 0 {
		out = append(out, to)
	}
	return out
}
