package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ownerKey = "owner_id"

var errMissingToken = errors.New("missing bearer token")

// authenticate reads the owner id from the subject of an HS256 bearer token.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ownerID, err := s.ownerFromRequest(c.Request())
		if err != nil {
			s.logger.Debug("Rejected request", slog.String("error", err.Error()))
			return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
		}

		c.Set(ownerKey, ownerID)
		return next(c)
	}
}

func (s *Server) ownerFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errMissingToken
	}
	if len(s.secret) == 0 {
		return "", errors.New("no token secret configured")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func ownerID(c echo.Context) string {
	owner, _ := c.Get(ownerKey).(string)
	return owner
}
