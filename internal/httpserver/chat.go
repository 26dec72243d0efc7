package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/conversation"
	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/logging"
)

type EventHandler interface {
	Handle(ctx context.Context, ev chat.Event) (*chat.Reply, error)
}

type ChatHTTP struct {
	Engine EventHandler
}

type EventResponse struct {
	Outcome  string         `json:"outcome"`
	Messages []chat.Message `json:"messages"`
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		return "rejected"
	case errors.Is(err, domain.ErrNoData):
		return "no_data"
	default:
		return "failed"
	}
}

// HandleEvent answers 200 with the reply for every event the conversation
// processed, failed or not; the reply is what the gateway must deliver.
func (h *ChatHTTP) HandleEvent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "chat.handle_event")

	var ev chat.Event
	if err := c.Bind(&ev); err != nil {
		l.Warn("handle_event_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if ev.ChatID == 0 || ev.User.ID == 0 {
		l.Warn("handle_event_error", "status", 400, "reason", "chat_id and user.id required")
		return echo.NewHTTPError(http.StatusBadRequest, "chat_id and user.id required")
	}

	reply, err := h.Engine.Handle(ctx, ev)
	conversation.LogOutcome(l, ev, err)
	if reply == nil {
		reply = &chat.Reply{}
	}

	return c.JSON(http.StatusOK, EventResponse{Outcome: outcome(err), Messages: reply.Messages})
}
