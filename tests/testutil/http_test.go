package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func echoEngine() *gin.Engine {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(shared.CodeUnauthorized, "no token"))
			return
		}
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(shared.CodeValidation, err.Error()))
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"name": body["name"], "lang": c.GetHeader("Accept-Language")}))
	})
	return engine
}

func TestServe(t *testing.T) {
	engine := echoEngine()

	t.Run("decodes a success payload", func(t *testing.T) {
		w := Serve(t, engine, http.MethodPost, "/echo", map[string]string{"name": "mug"},
			WithBearer("token"), WithHeader("Accept-Language", "fr"))

		RequireStatus(t, w, http.StatusOK)
		data := Data[map[string]string](t, w)
		assert.Equal(t, "mug", data["name"])
		assert.Equal(t, "fr", data["lang"])
	})

	t.Run("empty bearer sends no header", func(t *testing.T) {
		w := Serve(t, engine, http.MethodPost, "/echo", map[string]string{}, WithBearer(""))

		RequireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, shared.CodeUnauthorized, ErrorOf(t, w).Code)
	})

	t.Run("nil body is sent empty", func(t *testing.T) {
		w := Serve(t, engine, http.MethodPost, "/echo", nil, WithBearer("token"))

		env := DecodeEnvelope[map[string]string](t, w)
		assert.False(t, env.Success)
		assert.Equal(t, shared.CodeValidation, env.Error.Code)
	})
}
