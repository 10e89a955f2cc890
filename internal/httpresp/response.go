package httpresp

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination is the listing envelope shared by every paginated endpoint.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// ParsePage reads the page/limit query params with the given default
// limit, clamping page to >=1 and limit to 1..100.
func ParsePage(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}
