package httpresp_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/salon-natuerelle/salon-api/internal/httpresp"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, 3, httpresp.NewPagination(25, 1, 10).Pages)
	assert.Equal(t, 2, httpresp.NewPagination(20, 1, 10).Pages)
	assert.Equal(t, 0, httpresp.NewPagination(0, 1, 10).Pages)
	assert.Equal(t, 1, httpresp.NewPagination(1, 1, 100).Pages)
}

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string) (int, int) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return httpresp.ParsePage(c, 10)
	}

	page, limit := parse("")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = parse("page=3&limit=50")
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)

	page, limit = parse("page=-2&limit=0")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	_, limit = parse("limit=500")
	assert.Equal(t, 10, limit)

	_, limit = parse("limit=abc")
	assert.Equal(t, 10, limit)
}
