package storefront

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeSSEStreamsPanelEvents(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer server.Close()

	// Publish on a ticker so the event lands after the subscriber registers.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hook.PanelUpdated(PanelEvent{Panel: PanelCart, Reason: "replace"})
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "), "unexpected frame: %q", line)

	var event PanelEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
	assert.Equal(t, PanelCart, event.Panel)
	assert.Equal(t, "replace", event.Reason)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe()

	hook.PanelUpdated(PanelEvent{Panel: PanelCart, Reason: "show"})
	event := <-events
	assert.Equal(t, "show", event.Reason)

	cancel()
	if _, ok := <-events; ok {
		t.Fatalf("cancelled subscription must close its channel")
	}
	hook.PanelUpdated(PanelEvent{Panel: PanelCart, Reason: "hide"})
}
