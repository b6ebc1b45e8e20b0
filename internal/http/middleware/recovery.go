package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"boardgamelist/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Problem is the RFC 7807 body returned for unhandled faults. Detail is always generic;
// the cause only goes to the log.
type Problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail"`
	TraceID string `json:"traceId"`
}

const problemContentType = "application/problem+json"

// WriteProblem logs err against the request and answers with a 500 problem document.
func WriteProblem(c *gin.Context, err error) {
	rid := GetRequestID(c)
	utils.Log.WithFields(logrus.Fields{
		"module":     "HTTP",
		"action":     "fault",
		"request_id": rid,
		"path":       c.Request.URL.Path,
	}).WithError(err).Error("unhandled error")

	// gin keeps an explicitly set Content-Type when rendering JSON.
	c.Header("Content-Type", problemContentType)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(http.StatusInternalServerError, Problem{
		Type:    "https://tools.ietf.org/html/rfc7231#section-6.6.1",
		Title:   "An error occurred",
		Status:  http.StatusInternalServerError,
		Detail:  "The server encountered an unexpected condition.",
		TraceID: rid,
	})
}

// Recovery converts panics into problem documents.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			utils.Log.WithField("request_id", GetRequestID(c)).Debug(string(debug.Stack()))
			WriteProblem(c, fmt.Errorf("panic: %v", rec))
		}()
		c.Next()
	}
}
