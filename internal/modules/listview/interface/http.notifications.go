package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"acornAdmin/internal/modules/listview/domain"
	"acornAdmin/internal/modules/listview/infrastructure"
	"acornAdmin/internal/shared/normalization"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewNotificationsWebsocketHandler exposes /ws/notifications. The client receives
// "<screen>.invalidated" for the screens named in ?screens= (all screens when omitted).
func NewNotificationsWebsocketHandler(hub *infrastructure.Hub, screens func() []string, sendBuffer int) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		topics := requestedTopics(c.QueryParam("screens"), screens())
		if len(topics) == 0 {
			slog.Warn("notifications ws rejected: no known screen", slog.String("ip", peerIP), slog.String("screens", c.QueryParam("screens")))
			return echo.NewHTTPError(http.StatusBadRequest, "unknown screen")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("notifications ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		userID := sessionFromRequest(c)
		if claims, ok := ClaimsFrom(c); ok {
			userID = claims.Subject
		}
		clientID := uuid.NewString()
		client := infrastructure.NewClient(hub, conn, clientID, userID, sendBuffer)
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"clientId": clientID,
			},
			Data:      map[string]any{"topics": topics},
			Timestamp: time.Now().UTC(),
		})

		slog.Info("notifications ws connected", slog.String("clientId", clientID), slog.String("userId", userID), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}

func requestedTopics(raw string, known []string) []string {
	allowed := make(map[string]struct{}, len(known))
	for _, name := range known {
		allowed[name] = struct{}{}
	}
	wanted := known
	if strings.TrimSpace(raw) != "" {
		wanted = strings.Split(raw, ",")
	}
	topics := make([]string, 0, len(wanted))
	seen := make(map[string]struct{}, len(wanted))
	for _, name := range wanted {
		screen := normalization.NormalizeScreen(name)
		if _, ok := allowed[screen]; !ok {
			continue
		}
		if _, dup := seen[screen]; dup {
			continue
		}
		seen[screen] = struct{}{}
		topics = append(topics, domain.InvalidatedTopic(screen))
	}
	return topics
}
