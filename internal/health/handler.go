package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/soyuznik/telegram-ai-bridge/internal/config"
	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

type Handler struct {
	db      *sqlx.DB
	rdb     *redis.Client
	tg      *telegram.Client
	cfg     *config.Config
	started time.Time
}

func NewHandler(db *sqlx.DB, rdb *redis.Client, tg *telegram.Client, cfg *config.Config) *Handler {
	return &Handler{
		db:      db,
		rdb:     rdb,
		tg:      tg,
		cfg:     cfg,
		started: time.Now(),
	}
}

// HandleStatus reports connectivity of the external collaborators and uptime.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	_, tgErr := h.tg.GetMe(ctx)
	dbErr := h.db.PingContext(ctx)
	redisErr := h.rdb.Ping(ctx).Err()

	writeJSON(w, http.StatusOK, map[string]any{
		"telegram": tgErr == nil,
		"database": dbErr == nil,
		"redis":    redisErr == nil,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}

// HandleDebug reports which secrets are configured, never their values.
func (h *Handler) HandleDebug(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"bot_token_set":       h.cfg.BotToken != "",
		"database_url_set":    h.cfg.DatabaseURL != "",
		"openai_api_key_set":  h.cfg.OpenAIKey != "",
		"redis_addr_set":      h.cfg.RedisAddr != "",
		"public_base_url_set": h.cfg.PublicBaseURL != "",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
