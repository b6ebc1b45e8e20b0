package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			respondError(c, http.StatusServiceUnavailable, "unavailable", "data source unreachable", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "data source reachable"})
	}
}

// ErrorTest fails on purpose so the fault path can be checked end to end.
func ErrorTest(c *gin.Context) {
	panic("test")
}

// CodTest serves a script that reports server and client clocks, so clients can check
// they execute code on demand.
func CodTest(c *gin.Context) {
	page := "<script>" +
		"window.alert('Your client supports JavaScript!" +
		"\\r\\n\\r\\n" +
		"Server time (UTC): " + time.Now().UTC().Format(time.RFC3339Nano) +
		"\\r\\n" +
		"Client time (UTC): ' + new Date().toISOString());" +
		"</script>" +
		"<noscript>Your client does not support JavaScript</noscript>"
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
