package envelope

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-storefront/internal/apperr"
)

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	w := serve(func(c *gin.Context) { OK(c, http.StatusCreated, "Product added", gin.H{"id": "p1"}) })

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Product added", body["message"])
	assert.Equal(t, map[string]any{"id": "p1"}, body["data"])
}

func TestOK_NilDataIsNull(t *testing.T) {
	w := serve(func(c *gin.Context) { OK(c, http.StatusOK, "Product deleted successfully", nil) })

	assert.JSONEq(t, `{"success":true,"message":"Product deleted successfully","data":null}`, w.Body.String())
}

func TestFail_MapsKinds(t *testing.T) {
	w := serve(func(c *gin.Context) { Fail(c, apperr.NotFound("Product not found")) })
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Product not found", body["message"])
	require.Contains(t, body, "data")
	assert.Nil(t, body["data"])

	w = serve(func(c *gin.Context) { Fail(c, apperr.StoreFailure("query carts", errors.New("dynamo: throttled"))) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Some error occurred", decode(t, w)["message"])
}
