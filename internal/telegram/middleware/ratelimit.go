package middleware

import (
	"strconv"
	"time"

	"github.com/futig/faq-backend/internal/pkg/ratelimit"
	"github.com/futig/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// RateLimiterMiddleware limits how many updates a user may send per window.
// Throttled users get one warning per warningInterval.
type RateLimiterMiddleware struct {
	limiter *ratelimit.Limiter
	warned  *cache.Cache
	logger  *zap.Logger
	api     Sender
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	limiter *ratelimit.Limiter,
	warningInterval time.Duration,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limiter: limiter,
		warned:  cache.New(warningInterval, 2*warningInterval),
		logger:  logger,
		api:     api,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID := Origin(update)
	if userID == 0 {
		next(update)
		return
	}

	key := strconv.FormatInt(userID, 10)
	if ok, retryIn := rl.limiter.Allow(key); !ok {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
			zap.Duration("retry_in", retryIn),
		)
		if rl.warned.Add(key, struct{}{}, cache.DefaultExpiration) == nil {
			rl.sendRateLimitWarning(chatID)
		}
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64) {
	if chatID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(chatID, render.RenderRateLimited(rl.limiter.Describe()))
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
