package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := NewClient(hub, nil)
	require.NotEmpty(t, client.ID())

	client.Register()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	client.Unregister()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := NewClient(hub, nil)
	done := make(chan struct{})
	go func() {
		client.Register()
		client.Unregister()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register blocked after hub stopped")
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	client := NewClient(NewHub(zap.NewNop()), nil)
	for i := 0; i < cap(client.send)+10; i++ {
		client.Send(MsgTypeEstimate, i)
	}
	assert.Len(t, client.send, cap(client.send))

	msg := <-client.send
	assert.JSONEq(t, `{"type":"estimate","data":0}`, string(msg))
}

// newServerConn 返回一条真实 WebSocket 连接的服务端一侧
func newServerConn(t *testing.T) *websocket.Conn {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	select {
	case conn := <-conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("server side connection not established")
		return nil
	}
}

func TestHubShutdownStopsWritePump(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient(hub, newServerConn(t))
	client.Register()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	writerDone := make(chan struct{})
	go func() {
		client.WritePump()
		close(writerDone)
	}()

	cancel()
	<-stopped

	select {
	case <-writerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("write pump still running after hub shutdown")
	}

	// 关闭后发送和注销都不会 panic 或阻塞
	assert.NotPanics(t, func() {
		client.Send(MsgTypeEstimate, 1)
		client.Unregister()
	})
	assert.Equal(t, 0, hub.ClientCount())
}
