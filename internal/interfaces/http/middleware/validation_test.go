package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodedErrorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type allocateBody struct {
		ProjectID string `json:"project_id" binding:"required,uuid"`
		Quantity  int    `json:"quantity" binding:"required,gt=0"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/allocations", func(c *gin.Context) {
		var body allocateBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("invalid body yields per-field details", func(t *testing.T) {
		w := postJSON(t, router, "/allocations", `{"project_id": "not-a-uuid", "quantity": -5}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp decodedErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "project_id")
		assert.Contains(t, fields, "quantity")
	})

	t.Run("valid body passes through", func(t *testing.T) {
		w := postJSON(t, router, "/allocations",
			`{"project_id": "0b49a9f2-2d3e-4a5b-9c8d-7e6f5a4b3c2d", "quantity": 40}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-validator error still returns 400", func(t *testing.T) {
		w := postJSON(t, router, "/allocations", `{not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestValidationMessages(t *testing.T) {
	type quantityRules struct {
		Code     string `validate:"required"`
		Godown   string `validate:"uuid"`
		Name     string `validate:"min=3"`
		Unit     string `validate:"max=8"`
		Pin      string `validate:"len=6"`
		Status   string `validate:"oneof=PENDING APPROVED REJECTED"`
		Quantity int    `validate:"gt=0"`
		Page     int    `validate:"gte=1"`
		PageSize int    `validate:"lte=100"`
	}

	v := validator.New()
	err := v.Struct(quantityRules{
		Godown:   "nope",
		Name:     "ab",
		Unit:     "kilograms!",
		Pin:      "123",
		Status:   "SHIPPED",
		Quantity: -1,
		Page:     0,
		PageSize: 500,
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	expected := map[string]string{
		"Code":     "This field is required",
		"Godown":   "Invalid UUID format",
		"Name":     "Must be at least 3 characters",
		"Unit":     "Must be at most 8 characters",
		"Pin":      "Must be exactly 6 characters",
		"Status":   "Must be one of: PENDING APPROVED REJECTED",
		"Quantity": "Must be greater than 0",
		"Page":     "Must be greater than or equal to 1",
		"PageSize": "Must be less than or equal to 100",
	}

	seen := make(map[string]bool)
	for _, e := range verrs {
		want, ok := expected[e.Field()]
		require.True(t, ok, "unexpected field %s", e.Field())
		assert.Equal(t, want, validationMessage(e))
		seen[e.Field()] = true
	}
	assert.Len(t, seen, len(expected))
}
