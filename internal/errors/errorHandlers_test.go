package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performHandleError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	HandleError(c, err)
	return w
}

func TestHandleError_CustomError(t *testing.T) {
	w := performHandleError(New404Error("Article not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"NOT_FOUND"`)
	assert.Contains(t, w.Body.String(), "Article not found")
}

func TestHandleError_WrapsUnknownErrors(t *testing.T) {
	w := performHandleError(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"INTERNAL_SERVER_ERROR"`)
	// Internal detail stays out of the response body.
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestNew422Error(t *testing.T) {
	err := New422Error([]string{"title is 70 characters, limit is 60", "meta description is 90 characters, want 120-160"})

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Contains(t, err.Error(), "title is 70 characters")

	w := performHandleError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
