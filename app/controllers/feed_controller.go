package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/boofino/boofino/app/guard"
	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/event"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
	"github.com/boofino/boofino/pkg/ws"
)

// FeedController runs the live order feed for school admin dashboards.
type FeedController struct {
	hub *ws.Hub
}

func NewFeedController(hub *ws.Hub) *FeedController {
	return &FeedController{hub: hub}
}

// Subscribe upgrades the connection and scopes the subscriber to the
// admin's school. Route guards have already enforced admin.
func (c *FeedController) Subscribe(w http.ResponseWriter, r *http.Request) {
	u := guard.CurrentUser(r)
	if u.SchoolID == "" {
		response.Error(w, http.StatusBadRequest, lang.NotConnectedToSchool)
		return
	}
	ws.Upgrade(w, r, c.hub, u.SchoolID)
}

// ListenOrders registers the order.created listener that pushes each
// accepted checkout to the order's school feed. Called once at boot.
func (c *FeedController) ListenOrders() {
	event.Listen("order.created", func(payload interface{}) {
		created, ok := payload.(services.OrderCreated)
		if !ok {
			return
		}

		msg, err := json.Marshal(map[string]interface{}{
			"event": "order.created",
			"order": created.Order,
			"buyer": map[string]string{
				"fullname": created.User.Fullname,
				"username": created.User.Username,
			},
		})
		if err != nil {
			logger.Error("marshal order event", "error", err)
			return
		}
		c.hub.Broadcast(created.Order.SchoolID, msg)
	})
}
