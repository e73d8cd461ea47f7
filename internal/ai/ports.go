package ai

import "context"

// AI generates replies; it knows nothing about Telegram or the database.
type AI interface {
	// Reply produces the next assistant turn for a dialog.
	Reply(ctx context.Context, systemPrompt string, history []Message) (string, error)
	// DescribeImage produces a textual description of an image by URL.
	DescribeImage(ctx context.Context, systemPrompt string, imageURL string) (string, error)
	// Summarize condenses a dialog transcript into a short summary.
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Message is the provider-neutral dialog entry.
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}
