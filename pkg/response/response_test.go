package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestEnvelope(t *testing.T) {
	c, w := newContext("/")
	Conflict(c, "id already exists")

	assert.Equal(t, http.StatusConflict, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeConflict, body.Code)
	assert.Equal(t, "id already exists", body.Message)
	assert.Nil(t, body.Data)
}

func TestAttachment(t *testing.T) {
	c, w := newContext("/")
	Attachment(c, "backup.json", "application/json", []byte(`{}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="backup.json"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, `{}`, w.Body.String())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  Page
	}{
		{"/", Page{Page: 1, PageSize: 0}},
		{"/?page=3&page_size=20", Page{Page: 3, PageSize: 20}},
		{"/?page=-1&page_size=abc", Page{Page: 1, PageSize: defaultPerPage}},
		{"/?page_size=100000", Page{Page: 1, PageSize: maxPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newContext(tt.query)
			assert.Equal(t, tt.want, ParsePage(c))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, Page{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, p.Items)
	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, 3, p.TotalPages)

	last := Paginate(items, Page{Page: 3, PageSize: 2})
	assert.Equal(t, []int{5}, last.Items)

	beyond := Paginate(items, Page{Page: 9, PageSize: 2})
	assert.Equal(t, []int{}, beyond.Items)

	all := Paginate(items, Page{Page: 1})
	assert.Equal(t, items, all.Items)
	assert.Equal(t, 1, all.TotalPages)

	empty := Paginate([]int{}, Page{Page: 1})
	assert.Equal(t, []int{}, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
