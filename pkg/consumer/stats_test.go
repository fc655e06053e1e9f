package consumer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/travigo/ticketoffice/pkg/redis_client"
)

func TestHealthHandler(t *testing.T) {
	assert := assert.New(t)

	server := miniredis.RunT(t)
	redis_client.Client = redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redis_client.Client.Close()

	recorder := httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("OK", recorder.Body.String())

	server.Close()

	recorder = httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(http.StatusInternalServerError, recorder.Code)
}
