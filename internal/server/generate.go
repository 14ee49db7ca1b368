package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/contentagent/internal/agent"
)

// ContentAgent is the piece of the pipeline the HTTP layer needs.
type ContentAgent interface {
	Run(ctx context.Context, topic string, opts agent.Options) (*agent.Response, error)
}

// GenerateHandler exposes the pipeline as a single POST endpoint.
type GenerateHandler struct {
	Agent ContentAgent
}

func (h *GenerateHandler) Register(g *echo.Group) {
	g.POST("/generate", h.Generate)
}

type generateRequest struct {
	Topic          string   `json:"topic"`
	Tone           string   `json:"tone"`
	Audience       string   `json:"audience"`
	ContentFormats []string `json:"contentFormats"`
}

// Generate runs one pipeline request. Invalid input maps to 400, every other
// pipeline failure to 500 with a short message.
func (h *GenerateHandler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.Agent.Run(c.Request().Context(), req.Topic, agent.Options{
		Tone:           req.Tone,
		Audience:       req.Audience,
		ContentFormats: req.ContentFormats,
	})
	if err != nil {
		var invalid *agent.InvalidRequestError
		if errors.As(err, &invalid) {
			return echo.NewHTTPError(http.StatusBadRequest, invalid.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, resp)
}
