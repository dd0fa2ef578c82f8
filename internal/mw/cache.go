package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type storedResponse struct {
	status      int
	contentType string
	body        []byte
}

// teeWriter duplicates the response body into a buffer so a successful
// reply can be replayed from cache.
type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache replays recent successful GET responses, keyed by the full
// request URI. The schedule projection is recomputed at most once per
// TTL per client this way.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, ok := store.Get(key); ok {
			resp := hit.(storedResponse)
			c.Data(resp.status, resp.contentType, resp.body)
			c.Abort()
			return
		}

		tee := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = tee
		c.Next()

		status := tee.Status()
		if status < 200 || status >= 300 {
			return
		}
		store.Set(key, storedResponse{
			status:      status,
			contentType: tee.Header().Get("Content-Type"),
			body:        tee.buf.Bytes(),
		}, ttl)
	}
}
