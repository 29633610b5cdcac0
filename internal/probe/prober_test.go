package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMaxBody = 1 << 20

func TestCheck_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><title>hello</title></html>"))
	}))
	defer srv.Close()

	p := New(time.Second, testMaxBody, zap.NewNop())
	res, err := p.Check(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(res.Body), "hello")
	assert.False(t, res.CheckedAt.IsZero())
}

func TestCheck_Dead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(time.Second, testMaxBody, zap.NewNop())
	_, err := p.Check(context.Background(), srv.URL)

	var probeErr *Error
	require.ErrorAs(t, err, &probeErr)
	assert.Equal(t, KindDead, probeErr.Kind)
	assert.Equal(t, http.StatusNotFound, probeErr.StatusCode)
}

func TestCheck_TimedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	p := New(50*time.Millisecond, testMaxBody, zap.NewNop())
	_, err := p.Check(context.Background(), srv.URL)

	var probeErr *Error
	require.ErrorAs(t, err, &probeErr)
	assert.Equal(t, KindTimedOut, probeErr.Kind)
}

func TestCheck_Unreachable(t *testing.T) {
	// grab a port that nothing listens on
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	p := New(time.Second, testMaxBody, zap.NewNop())
	_, err := p.Check(context.Background(), target)

	var probeErr *Error
	require.ErrorAs(t, err, &probeErr)
	assert.Equal(t, KindUnreachable, probeErr.Kind)
	assert.NotEmpty(t, probeErr.Detail)
}

func TestCheck_BodyCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	p := New(time.Second, 128, zap.NewNop())
	res, err := p.Check(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, res.Body, 128)
}
