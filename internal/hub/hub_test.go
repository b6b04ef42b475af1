package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.Run(ctx) }()
	return h, cancel, errc
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimRight(line, "\n")
}

func TestHubStreamsBroadcasts(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, cancel, errc := startHub(t)
	srv := httptest.NewServer(h)

	transport := &http.Transport{}
	client := &http.Client{Transport: transport}

	reqCtx, reqCancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected", readLine(t, body))
	readLine(t, body)
	assert.Equal(t, 1, h.ClientCount())

	h.Broadcast(map[string]string{"type": "view_updated"})
	assert.Equal(t, `data: {"type":"view_updated"}`, readLine(t, body))

	reqCancel()
	resp.Body.Close()
	transport.CloseIdleConnections()
	srv.Close()

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestHubRejectsClientsAfterShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, cancel, errc := startHub(t)
	cancel()
	require.NoError(t, <-errc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestForward(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New(nil)
	events := make(chan string, 1)
	events <- "hello"
	close(events)

	require.NoError(t, Forward(context.Background(), h, events))

	select {
	case got := <-h.broadcast:
		assert.Equal(t, "hello", got)
	default:
		t.Fatal("expected forwarded event")
	}
}
