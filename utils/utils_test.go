package utils

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateOrderNumber(t *testing.T) {
	re := regexp.MustCompile(`^GRC-\d{8}-\d{5}$`)

	n := GenerateOrderNumber()
	assert.Regexp(t, re, n)
	assert.Contains(t, n, time.Now().Format("20060102"))
}

func TestSendJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONResponse(rec, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestHandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, http.StatusBadRequest, "Quantity must be at least 1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Quantity must be at least 1"}`, rec.Body.String())
}

func TestDecodeJSONBody(t *testing.T) {
	var dst struct {
		Quantity int `json:"quantity"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":3}`))
	require.NoError(t, DecodeJSONBody(r, &dst))
	assert.Equal(t, 3, dst.Quantity)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	assert.Error(t, DecodeJSONBody(r, &dst))
}

func TestErrorWithTrace(t *testing.T) {
	assert.NoError(t, ErrorWithTrace(nil, "nothing"))

	err := ErrorWithTrace(assert.AnError, "context")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utils_test.go")
	assert.Contains(t, err.Error(), "context")
}
