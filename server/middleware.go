package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/oceanwatch/errors"
	"github.com/techagentng/oceanwatch/models"
	"github.com/techagentng/oceanwatch/server/response"
)

const (
	ctxUser  = "user"
	ctxRole  = "role"
	ctxToken = "access_token"
)

// Authorize resolves the caller's session. Without RequireSession an
// anonymous caller is let through as "Anonymous".
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			if s.Config.RequireSession {
				respondAndAbort(c, "login required", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
				return
			}
			c.Set(ctxUser, models.AnonymousReporter)
			c.Next()
			return
		}

		if s.Sessions == nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		sess, err := s.Sessions.IsLoggedIn(accessToken)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		c.Set(ctxUser, sess.User)
		c.Set(ctxRole, sess.Role)
		c.Set(ctxToken, accessToken)
		c.Next()
	}
}

// limitRateForSubmission throttles report submission per client IP.
func limitRateForSubmission(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func currentUser(c *gin.Context) string {
	if user := c.GetString(ctxUser); user != "" {
		return user
	}
	return models.AnonymousReporter
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the bearer token in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
