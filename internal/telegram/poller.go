package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DispatchFunc consumes one inbound update.
type DispatchFunc func(ctx context.Context, upd *Update) error

// Poller pulls updates via getUpdates and feeds them to the same dispatch
// entry point the webhook uses.
type Poller struct {
	client   *Client
	dispatch DispatchFunc
	timeout  int
}

func NewPoller(client *Client, dispatch DispatchFunc, timeoutSec int) *Poller {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}
	return &Poller{client: client, dispatch: dispatch, timeout: timeoutSec}
}

// Run polls until ctx is cancelled. Dispatch errors are logged and the
// offset is advanced anyway; redelivery is not attempted.
func (p *Poller) Run(ctx context.Context) {
	var offset int64

	log.Info().Int("timeout_sec", p.timeout).Msg("longpoll started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("longpoll stopped")
			return
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("getUpdates failed")
			time.Sleep(2 * time.Second)
			continue
		}

		for i := range updates {
			upd := &updates[i]
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if err := p.dispatch(ctx, upd); err != nil {
				log.Error().Err(err).Int64("update_id", upd.UpdateID).Msg("dispatch failed")
			}
		}
	}
}
