package middleware

import (
	"fmt"
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit limits requests per client IP. rate uses the limiter format, e.g. "10-M".
func RateLimit(rate string) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rate, err)
	}

	store := memory.NewStore()
	instance := limiter.New(store, r)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			httpx.Abort(c, http.StatusTooManyRequests, "too_many_requests", nil)
		}),
	), nil
}
