package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/orderbot/internal/db"
	"github.com/Skotchmaster/orderbot/internal/jwtmiddleware"
)

type Deps struct {
	DB           *gorm.DB
	ChatHandler  *ChatHTTP
	StatsHandler *StatsHTTP
	JWTSecret    []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	bearer := jwtmiddleware.RequireBearer(d.JWTSecret)
	e.POST("/chat/events", d.ChatHandler.HandleEvent, bearer)
	e.GET("/statistics.csv", d.StatsHandler.Download, bearer)
}
