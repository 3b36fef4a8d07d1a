package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukibot/yuki/internal/config"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(context.Context) error { return f.err }

func TestHealthz(t *testing.T) {
	tests := []struct {
		name   string
		db     fakeDB
		code   int
		status string
	}{
		{name: "ok", db: fakeDB{}, code: http.StatusOK, status: "ok"},
		{name: "db down", db: fakeDB{err: errors.New("locked")}, code: http.StatusServiceUnavailable, status: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(NewServer(&config.HealthConfig{Addr: ":0"}, tt.db).routes())
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/healthz")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.code, resp.StatusCode)
			var got status
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(&config.HealthConfig{}, fakeDB{}).routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Yuki"`)
}
