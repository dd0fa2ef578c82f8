package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"register-schedule-backend/internal/engine"
	"register-schedule-backend/internal/mw"
	"register-schedule-backend/internal/store"
)

// RouterOptions tunes the middleware applied to the API group.
type RouterOptions struct {
	RateLimitPerSec float64
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, eng *engine.Service, webpushOptions *webpush.Options, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, eng, webpushOptions)

	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), 5)
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/clients/:client_id/schedule", caching, handler.GetSchedule)

		api.GET("/clients/:client_id/config", handler.GetClientConfig)
		api.PUT("/clients/:client_id/config", handler.PutClientConfig)

		api.GET("/clients/:client_id/periods", handler.GetPeriods)
		api.PUT("/clients/:client_id/periods", handler.PutPeriod)
		api.DELETE("/periods/:id", handler.DeletePeriod)

		api.GET("/clients/:client_id/executions", handler.GetExecutions)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
