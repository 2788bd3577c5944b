package push_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"logiflow/internal/adapters/out/push"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// wsServer accepts websockets and hands each connection to serve.
func wsServer(t *testing.T, serve func(n int32, conn *websocket.Conn, r *http.Request)) string {
	t.Helper()

	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		serve(count.Add(1), conn, r)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func next(t *testing.T, sub ports.Subscription) ports.OrderEvent {
	t.Helper()

	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "events closed")
		return ev
	case <-time.After(waitFor):
		require.FailNow(t, "no event")
		return ports.OrderEvent{}
	}
}

func TestWebSocketChannel_DeliversEvents(t *testing.T) {
	var auth atomic.Value
	url := wsServer(t, func(_ int32, conn *websocket.Conn, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		ctx := conn.CloseRead(r.Context())
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"event":"fleet_update","data":{}}`))
		_ = conn.Write(ctx, websocket.MessageText, []byte(`not json`))
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"event":"orders_update","data":{"id":42,"status":"ASIGNADO","assignedVehicleId":7}}`))
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"event":"orders_update"}`))
		<-ctx.Done()
	})

	ch, err := push.NewWebSocketChannel(push.WebSocketConfig{URL: url, Token: "svc-token"})
	require.NoError(t, err)

	sub, err := ch.Subscribe(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	full := next(t, sub)
	require.False(t, full.IsSignal())
	assert.Equal(t, "42", full.OrderID.String())
	assert.Equal(t, order.Assigned, full.Order.Status())

	assert.True(t, next(t, sub).IsSignal())
	assert.Equal(t, "Bearer svc-token", auth.Load())
}

func TestWebSocketChannel_ReconnectsAndSignals(t *testing.T) {
	url := wsServer(t, func(n int32, conn *websocket.Conn, r *http.Request) {
		if n == 1 {
			_ = conn.Write(r.Context(), websocket.MessageText, []byte(`{"id":1,"status":"PENDING"}`))
			_ = conn.Close(websocket.StatusGoingAway, "restart")
			return
		}
		ctx := conn.CloseRead(r.Context())
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"id":2,"status":"PENDING"}`))
		<-ctx.Done()
	})

	ch, err := push.NewWebSocketChannel(push.WebSocketConfig{URL: url, MaxBackoff: 50 * time.Millisecond})
	require.NoError(t, err)

	sub, err := ch.Subscribe(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	assert.Equal(t, "1", next(t, sub).OrderID.String())
	assert.True(t, next(t, sub).IsSignal())
	assert.Equal(t, "2", next(t, sub).OrderID.String())
}

func TestWebSocketChannel_CloseEndsEvents(t *testing.T) {
	url := wsServer(t, func(_ int32, conn *websocket.Conn, r *http.Request) {
		<-conn.CloseRead(r.Context()).Done()
	})

	ch, err := push.NewWebSocketChannel(push.WebSocketConfig{URL: url})
	require.NoError(t, err)

	sub, err := ch.Subscribe(t.Context())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(waitFor):
		t.Fatal("events not closed")
	}
}

func TestWebSocketChannel_InitialDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	ch, err := push.NewWebSocketChannel(push.WebSocketConfig{URL: url, DialTimeout: time.Second})
	require.NoError(t, err)

	_, err = ch.Subscribe(t.Context())
	assert.ErrorIs(t, err, errs.ErrServiceUnreachable)
}

func TestNewChannels_Validation(t *testing.T) {
	_, err := push.NewWebSocketChannel(push.WebSocketConfig{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = push.NewAMQPChannel(push.AMQPConfig{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = push.NewPGNotifyChannel(push.PGNotifyConfig{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
