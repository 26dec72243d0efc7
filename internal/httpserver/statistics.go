package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orderbot/internal/auth"
	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/jwtmiddleware"
	"github.com/Skotchmaster/orderbot/internal/logging"
)

type Exporter interface {
	Export(ctx context.Context, now time.Time) (*chat.Document, error)
}

type StatsHTTP struct {
	Stats     Exporter
	AllowList auth.AllowList
	Now       func() time.Time
}

func userFromContext(c echo.Context) chat.User {
	var u chat.User
	if s, ok := c.Get(jwtmiddleware.ContextUserID).(string); ok {
		u.ID, _ = strconv.ParseInt(s, 10, 64)
	}
	if name, ok := c.Get(jwtmiddleware.ContextUsername).(string); ok {
		u.Username = name
	}
	return u
}

func (h *StatsHTTP) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *StatsHTTP) Download(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stats.download")

	user := userFromContext(c)
	if err := h.AllowList.Check(user); err != nil {
		l.Warn("download_statistics_error", "status", 403, "user_id", user.ID, "reason", "not allowed")
		return echo.NewHTTPError(http.StatusForbidden, auth.RejectionMessage)
	}

	doc, err := h.Stats.Export(ctx, h.now())
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			l.Info("download_statistics_error", "status", 404, "reason", "no orders")
			return echo.NewHTTPError(http.StatusNotFound, "no orders found")
		}
		l.Error("download_statistics_error", "status", 500, "operation", "export_statistics", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	l.Info("download_statistics_success", "user_id", user.ID, "bytes", len(doc.Data))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}
