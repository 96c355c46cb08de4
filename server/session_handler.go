package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/oceanwatch/errors"
	"github.com/techagentng/oceanwatch/server/response"
	"github.com/techagentng/oceanwatch/session"
)

type loginRequest struct {
	User string `json:"user" conform:"trim" validate:"required,max=100"`
	Role string `json:"role" conform:"trim,lower" validate:"omitempty,oneof=citizen official analyst"`
}

// handleLogin issues a session token. Identity is taken at face value.
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		if req.Role == "" {
			req.Role = "citizen"
		}
		sess, err := s.Sessions.Login(req.User, req.Role)
		if err != nil {
			if errors.Is(err, session.ErrEmptyUser) {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, sess, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := getTokenFromHeader(c)
		if err := s.Sessions.Logout(token); err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}
