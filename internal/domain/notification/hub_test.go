package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablehub/internal/domain/reservation"
	"tablehub/internal/pkg/jwt"
)

func startServer(t *testing.T) (*Hub, *jwt.Service, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	jwtSvc := jwt.New("test-secret", time.Hour)
	r := gin.New()
	NewWSHandler(hub, jwtSvc, nil).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, jwtSvc, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, base, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/reservations?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_PushesToOwnerAndUser(t *testing.T) {
	hub, jwtSvc, base := startServer(t)

	ownerToken, err := jwtSvc.GenerateToken(100, "restaurant_owner")
	require.NoError(t, err)
	userToken, err := jwtSvc.GenerateToken(1, "user")
	require.NoError(t, err)

	ownerConn := dial(t, base, ownerToken)
	userConn := dial(t, base, userToken)

	require.Eventually(t, func() bool {
		return hub.Connected(100) && hub.Connected(1)
	}, 2*time.Second, 10*time.Millisecond)

	ev := reservation.Event{
		Type:              reservation.EventCreated,
		ReservationID:     7,
		RestaurantID:      3,
		RestaurantOwnerID: 100,
		UserID:            1,
		Status:            reservation.StatusPending,
	}
	require.NoError(t, hub.PublishReservationEvent(context.Background(), ev))

	for _, conn := range []*websocket.Conn{ownerConn, userConn} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, string(reservation.EventCreated), msg.Type)
		require.NotNil(t, msg.Payload)
		assert.Equal(t, int64(7), msg.Payload.ReservationID)
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, jwtSvc, base := startServer(t)

	token, err := jwtSvc.GenerateToken(5, "user")
	require.NoError(t, err)
	conn := dial(t, base, token)

	require.Eventually(t, func() bool { return hub.Connected(5) }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !hub.Connected(5) }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsMissingOrBadToken(t *testing.T) {
	_, _, base := startServer(t)
	httpBase := "http" + strings.TrimPrefix(base, "ws")

	resp, err := http.Get(httpBase + "/ws/reservations")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp2, err := websocket.DefaultDialer.Dial(base+"/ws/reservations?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp2)
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestSendToUser_NoConnection(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.SendToUser(42, []byte(`{}`)))
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	check := originChecker([]string{"https://app.tablehub.io/"})
	assert.True(t, check(req("https://app.tablehub.io")))
	assert.False(t, check(req("https://evil.example")))
	assert.True(t, check(req("")))

	assert.True(t, originChecker([]string{"*"})(req("https://any.example")))
}
