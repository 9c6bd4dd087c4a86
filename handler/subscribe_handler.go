package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var errUnknownCollection = errors.New("unknown collection")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Auth happens on the bearer token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SubscribeStreams bundles the per-collection live subscriptions offered
// over the websocket.
type SubscribeStreams struct {
	Memos         *repository.MemosRepo
	Templates     *repository.TemplatesRepo
	Categories    *repository.CategoriesRepo
	Notifications *repository.NotificationsRepo
}

type subscribeRequest struct {
	Action     string `json:"action"` // subscribe or unsubscribe
	Collection string `json:"collection"`
}

type streamDelivery struct {
	Collection string      `json:"collection"`
	Data       interface{} `json:"data"`
}

// openFeed attaches a live feed for one collection and tees every delivery
// to the websocket. The feed keeps the connection's last-known list, so a
// delivery that races connection teardown still lands somewhere consistent.
func openFeed[T any](ctx context.Context, ownerID, collection string,
	send func(string, interface{}), subscribe usecase.SubscribeFunc[T]) (*usecase.Feed[T], error) {

	feed := usecase.NewFeed(func(ctx context.Context, owner string, callback func([]T)) (func(), error) {
		return subscribe(ctx, owner, func(items []T) {
			callback(items)
			send(collection, items)
		})
	})

	feed.SetOwner(ctx, ownerID)
	if _, _, errMsg := feed.Snapshot(); errMsg != "" {
		return nil, errors.New(errMsg)
	}
	return feed, nil
}

// SubscribeHandler upgrades the connection and streams full result sets for
// the collections the client subscribes to. Each subscribed collection is
// backed by its own feed; every remote mutation triggers a fresh delivery of
// the complete ordered list, so the client can replace its view wholesale
// instead of patching it.
func SubscribeHandler(c *gin.Context, streams *SubscribeStreams) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for %s: %v", userID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeMu sync.Mutex
	send := func(collection string, data interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(streamDelivery{Collection: collection, Data: data}); err != nil {
			cancel()
			return
		}
		utils.SubscriptionDeliveries.WithLabelValues(collection).Inc()
	}

	attach := func(collection string) (interface{ Close() }, error) {
		switch collection {
		case "memos":
			return openFeed(ctx, userID, collection, send, streams.Memos.Subscribe)
		case "templates":
			return openFeed(ctx, userID, collection, send, streams.Templates.Subscribe)
		case "categories":
			return openFeed(ctx, userID, collection, send, streams.Categories.Subscribe)
		case "notifications":
			return openFeed(ctx, userID, collection, send, streams.Notifications.Subscribe)
		}
		return nil, errUnknownCollection
	}

	// Keepalive: server pings, client pongs.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	active := map[string]interface{ Close() }{}
	defer func() {
		for _, feed := range active {
			feed.Close()
		}
	}()

	for {
		var req subscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		switch req.Action {
		case "subscribe":
			if _, ok := active[req.Collection]; ok {
				continue
			}
			feed, err := attach(req.Collection)
			if err != nil {
				writeMu.Lock()
				conn.WriteJSON(gin.H{"error": "cannot subscribe to " + req.Collection})
				writeMu.Unlock()
				continue
			}
			active[req.Collection] = feed
		case "unsubscribe":
			if feed, ok := active[req.Collection]; ok {
				feed.Close()
				delete(active, req.Collection)
			}
		}
	}
}
