package telegram

import "context"

// Gateway is the outbound surface of the messaging platform used by services.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	GetFileURL(ctx context.Context, fileID string) (string, error)
}
