package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"todolist/pkg/todo"
)

// Items fetches the whole list. A 404 answer (see IsNotFound) means the
// session has no list yet.
func (c *Client) Items(ctx context.Context) ([]todo.Item, error) {
	var items []todo.Item
	if err := c.do(ctx, http.MethodGet, "items", "items", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []todo.Item{}
	}
	return items, nil
}

// NewList provisions a list for the session.
func (c *Client) NewList(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "new", "new", nil, nil)
}

// Add creates an item. The id in the body is ignored by the server; the
// assigned id is returned when the server sends one, todo.NewID otherwise.
func (c *Client) Add(ctx context.Context, it todo.Item) (int, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "add", "items/add", it, &raw); err != nil {
		return todo.NewID, err
	}
	id := todo.NewID
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &id); err != nil {
			id = todo.NewID
		}
	}
	return id, nil
}

// Update replaces an item.
func (c *Client) Update(ctx context.Context, it todo.Item) error {
	return c.do(ctx, http.MethodPost, "update", fmt.Sprintf("items/%d/update", it.ID), it, nil)
}

// Done marks an item completed.
func (c *Client) Done(ctx context.Context, id int) error {
	return c.transition(ctx, id, "done")
}

// Activate moves a completed item back to the active list.
func (c *Client) Activate(ctx context.Context, id int) error {
	return c.transition(ctx, id, "activate")
}

// Deactivate retires an item, typically a repeating one.
func (c *Client) Deactivate(ctx context.Context, id int) error {
	return c.transition(ctx, id, "deactivate")
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.transition(ctx, id, "delete")
}

func (c *Client) transition(ctx context.Context, id int, action string) error {
	return c.do(ctx, http.MethodGet, action, fmt.Sprintf("items/%d/%s", id, action), nil, nil)
}
