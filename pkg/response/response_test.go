package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, handler gin.HandlerFunc) Response {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	resp := perform(t, func(c *gin.Context) { Success(c, gin.H{"id": "1"}) })
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, map[string]interface{}{"id": "1"}, resp.Data)
}

func TestError(t *testing.T) {
	t.Run("AppError保留业务码", func(t *testing.T) {
		resp := perform(t, func(c *gin.Context) {
			Error(c, apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在"))
		})
		assert.Equal(t, apperrors.ErrCodeISBNDuplicate, resp.Code)
		assert.Equal(t, "ISBN号已存在", resp.Message)
		assert.Nil(t, resp.Data)
	})

	t.Run("普通错误不泄露内部信息", func(t *testing.T) {
		resp := perform(t, func(c *gin.Context) {
			Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
		})
		assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
		assert.Equal(t, "系统内部错误", resp.Message)
	})
}

func TestErrorWithCode(t *testing.T) {
	resp := perform(t, func(c *gin.Context) {
		ErrorWithCode(c, apperrors.ErrCodeBookNotFound, "Book 'x' not found")
	})
	assert.Equal(t, apperrors.ErrCodeBookNotFound, resp.Code)
	assert.Equal(t, "Book 'x' not found", resp.Message)
}
