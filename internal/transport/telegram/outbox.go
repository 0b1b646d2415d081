package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// outbox serializes outgoing messages under a global rate limit. enqueue
// never blocks so it is safe to call from engine callbacks.
type outbox struct {
	api     API
	limiter *rate.Limiter
	queue   chan tgbotapi.Chattable
}

func newOutbox(api API, perSec float64, size int) *outbox {
	if perSec <= 0 {
		perSec = 20
	}
	if size <= 0 {
		size = 512
	}
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}
	return &outbox{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		queue:   make(chan tgbotapi.Chattable, size),
	}
}

func (o *outbox) enqueue(c tgbotapi.Chattable) bool {
	select {
	case o.queue <- c:
		return true
	default:
		log.Warn().Int("queue_len", len(o.queue)).Msg("telegram outbox full, message dropped")
		return false
	}
}

func (o *outbox) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			o.flush()
			return
		case c := <-o.queue:
			if err := o.limiter.Wait(ctx); err != nil {
				o.send(c)
				o.flush()
				return
			}
			o.send(c)
		}
	}
}

// flush sends whatever is queued without waiting on the limiter.
func (o *outbox) flush() {
	for {
		select {
		case c := <-o.queue:
			o.send(c)
		default:
			return
		}
	}
}

func (o *outbox) send(c tgbotapi.Chattable) {
	if _, err := o.api.Send(c); err != nil {
		log.Warn().Err(err).Msg("telegram send failed")
	}
}
