package httpx

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/pkg/i18n"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultLanguage is used when the client sends no Accept-Language.
const DefaultLanguage = "id"

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 1
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func Paginated(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": p,
	})
}

// Error writes err as a localized error envelope. Errors outside the
// apperror taxonomy are logged and reported as 500.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	id, data := apperror.MessageID(err)
	Abort(c, status, id, data)
}

func BadRequest(c *gin.Context, err error) {
	Abort(c, http.StatusBadRequest, "bad_request", map[string]interface{}{"Detail": err.Error()})
}

func Abort(c *gin.Context, status int, messageID string, data map[string]interface{}) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    messageID,
		"error":   i18n.T(messageID, data, c.GetHeader("Accept-Language"), DefaultLanguage),
	})
}

// PageParams reads page and limit query parameters with their defaults.
func PageParams(c *gin.Context, defaultLimit int) (int, int) {
	page := QueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := QueryInt(c, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func QueryInt(c *gin.Context, key string, def int) int {
	str := c.Query(key)
	if str == "" {
		return def
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return def
	}
	return val
}

var errMissingBody = errors.New("request body is required")

// BindJSON decodes the body into v and writes a 400 on failure.
func BindJSON(c *gin.Context, v interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		BadRequest(c, errMissingBody)
		return false
	}
	if err := c.ShouldBindJSON(v); err != nil {
		BadRequest(c, err)
		return false
	}
	return true
}
