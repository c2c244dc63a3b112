package realtime

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/taskflow/tui/internal/model"
)

// SubscribeToProject opens a live subscription to a project's event topic
// and announces the subscription to the server. Best-effort: when the
// session is down the request is logged and dropped, and the caller gets
// no subscription.
//
// At most one subscription exists per project id. A duplicate subscribe
// keeps the transport subscription AND the originally registered callback;
// the new callback is ignored (first callback wins).
func (c *Client) SubscribeToProject(projectID int64, cb ProjectEventFunc) {
	c.mu.Lock()
	if c.state != StateConnected || c.transport == nil {
		c.mu.Unlock()
		log.Printf("[ws] cannot subscribe to project %d: not connected", projectID)
		return
	}
	if _, exists := c.projectSubs[projectID]; exists {
		c.mu.Unlock()
		return
	}
	t := c.transport
	c.mu.Unlock()

	dest := fmt.Sprintf("/topic/project/%d", projectID)
	sub, err := t.Subscribe(dest)
	if err != nil {
		log.Printf("[ws] subscribing to project %d: %v", projectID, err)
		return
	}

	c.mu.Lock()
	// Re-check under the lock: a disconnect or a concurrent subscribe may
	// have raced the transport call.
	if c.state != StateConnected || c.transport != t {
		c.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	if _, exists := c.projectSubs[projectID]; exists {
		c.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	c.projectSubs[projectID] = sub
	c.projectCallbacks[projectID] = cb
	c.mu.Unlock()

	go c.pumpProjectEvents(projectID, sub)

	// Announce the subscription intent; fire-and-forget, body is the bare
	// project id as a JSON value.
	body, _ := json.Marshal(projectID)
	if err := t.Send(destSubscribeProject, body); err != nil {
		log.Printf("[ws] announcing project %d subscription: %v", projectID, err)
	}
}

// UnsubscribeFromProject cancels the project's topic subscription. No-op
// when no subscription exists.
func (c *Client) UnsubscribeFromProject(projectID int64) {
	c.mu.Lock()
	sub, exists := c.projectSubs[projectID]
	if exists {
		delete(c.projectSubs, projectID)
		delete(c.projectCallbacks, projectID)
	}
	c.mu.Unlock()

	if !exists {
		return
	}
	if err := sub.Unsubscribe(); err != nil {
		log.Printf("[ws] unsubscribing project %d: %v", projectID, err)
	}
}

// pumpProjectEvents decodes inbound frames for one project topic and
// dispatches them to the registered callback. Malformed frames are logged
// and dropped; a callback removed between receipt and dispatch means the
// frame is dropped silently.
func (c *Client) pumpProjectEvents(projectID int64, sub Subscription) {
	for body := range sub.Messages() {
		var event model.ProjectEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("[ws] malformed project %d event: %v", projectID, err)
			continue
		}

		c.mu.Lock()
		cb := c.projectCallbacks[projectID]
		c.mu.Unlock()

		if cb != nil {
			cb(event)
		}
	}
}
