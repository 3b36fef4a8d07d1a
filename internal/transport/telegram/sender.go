package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yukibot/yuki/pkg/log"
	"github.com/yukibot/yuki/pkg/markup"
	"github.com/yukibot/yuki/pkg/retry"
	"go.uber.org/ratelimit"
	tele "gopkg.in/telebot.v3"
)

type messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// sender delivers messages one at a time with a fixed gap between them.
type sender struct {
	api      messenger
	chunker  *markup.Chunker
	maxRunes int
	pace     ratelimit.Limiter
	retrier  *retry.Retrier
}

func newSender(api messenger, chunker *markup.Chunker, maxRunes int, interval time.Duration) *sender {
	cfg := retry.NewDefaultConfig()
	cfg.MaxRetries = 3
	return &sender{
		api:      api,
		chunker:  chunker,
		maxRunes: maxRunes,
		pace:     ratelimit.New(1, ratelimit.Per(interval), ratelimit.WithoutSlack),
		retrier:  retry.NewRetrier(cfg),
	}
}

// sendMarkdown truncates text, splits it into MarkdownV2 chunks and sends them
// in order. A chunk the API refuses to parse is sent once more as plain text.
// Any other failure stops the sequence; chunks already sent stay sent.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, text string) error {
	logger := log.FromCtx(ctx)
	d := s.chunker.Dialect()

	if s.maxRunes > 0 {
		text = d.Truncate(d.Balance(d.Escape(text)), s.maxRunes)
	}

	chunks := s.chunker.Split(text)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := s.send(ctx, to, chunk, tele.ModeMarkdownV2)
		if err != nil && isMarkupError(err) {
			logger.Warn().Err(err).Int("chunk", i).Msg("markdown rejected, sending plain text")
			_, err = s.send(ctx, to, d.Unescape(chunk))
		}
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("total", len(chunks)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// send paces every attempt and waits out flood control.
func (s *sender) send(ctx context.Context, to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	var msg *tele.Message
	err := s.retrier.Do(ctx, func() error {
		s.pace.Take()
		m, err := s.api.Send(to, what, opts...)
		if err == nil {
			msg = m
			return nil
		}
		if wait, ok := floodWait(err); ok {
			log.FromCtx(ctx).Warn().Dur("retry_after", wait).Msg("telegram flood control")
			return retry.After(wait, err)
		}
		return retry.Permanent(err)
	})
	return msg, err
}

func floodWait(err error) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return time.Duration(flood.RetryAfter) * time.Second, true
	}
	return 0, false
}

func isMarkupError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "can't parse entities") || strings.Contains(msg, "can't parse entity")
}
