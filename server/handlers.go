package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/siherrmann/matchmaker"
	"github.com/siherrmann/matchmaker/core/intake"
	"github.com/siherrmann/matchmaker/core/introduction"
	"github.com/siherrmann/matchmaker/database"
	"github.com/siherrmann/matchmaker/model"
)

type sendIntroductionsRequest struct {
	MatchIDs []uuid.UUID `json:"matchIds"`
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

// authorizeEvent resolves the event id parameter for the current owner.
func (s *Server) authorizeEvent(c echo.Context) (*model.Event, error) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, database.ErrEventNotFound
	}
	return s.service.Authorize(c.Request().Context(), ownerID(c), eventID)
}

// respondError maps known errors to their status codes.
func (s *Server) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, matchmaker.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	case errors.Is(err, matchmaker.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody("Forbidden"))
	case errors.Is(err, database.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, errorBody("Event not found"))
	case errors.Is(err, introduction.ErrNoMatchIDs),
		errors.Is(err, intake.ErrMissingEmailColumn),
		errors.Is(err, intake.ErrNoRows):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	default:
		s.logger.Error("Request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func (s *Server) handleGenerateMatches(c echo.Context) error {
	event, err := s.authorizeEvent(c)
	if err != nil {
		return s.respondError(c, err)
	}

	result, err := s.service.GenerateMatches(c.Request().Context(), event.ID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleSendIntroductions(c echo.Context) error {
	var req sendIntroductionsRequest
	if err := c.Bind(&req); err != nil || len(req.MatchIDs) == 0 {
		return c.JSON(http.StatusBadRequest, errorBody(introduction.ErrNoMatchIDs.Error()))
	}

	event, err := s.authorizeEvent(c)
	if err != nil {
		return s.respondError(c, err)
	}

	result, err := s.service.SendIntroductions(c.Request().Context(), event.ID, req.MatchIDs)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleImportCSV(c echo.Context) error {
	event, err := s.authorizeEvent(c)
	if err != nil {
		return s.respondError(c, err)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("No file provided"))
	}
	file, err := header.Open()
	if err != nil {
		return s.respondError(c, err)
	}
	defer file.Close()

	result, err := s.service.ImportCSV(c.Request().Context(), event.ID, file)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
