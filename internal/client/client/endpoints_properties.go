package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

func (c *HTTPClient) ListProperties(ctx context.Context) ([]models.Property, error) {
	props := []models.Property{}
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, "/api/properties", nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (c *HTTPClient) GetProperty(ctx context.Context, id models.ID) (*models.Property, error) {
	var p models.Property
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, propertyPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) CreateProperty(ctx context.Context, p models.Property) (*models.Property, error) {
	var created models.Property
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPost, "/api/properties", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateProperty(ctx context.Context, p models.Property) (*models.Property, error) {
	var updated models.Property
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPut, propertyPath(p.ID), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteProperty(ctx context.Context, id models.ID) error {
	return c.Request(ctx, ModeAuthenticated, http.MethodDelete, propertyPath(id), nil, nil)
}

type roomsPayload struct {
	Rooms []models.Room `json:"rooms"`
}

func (c *HTTPClient) GetRooms(ctx context.Context, propertyID models.ID) ([]models.Room, error) {
	var resp roomsPayload
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, propertyPath(propertyID)+"/rooms", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Rooms == nil {
		return []models.Room{}, nil
	}
	return resp.Rooms, nil
}

// SaveRooms replaces the room list of a property and returns what the
// backend stored.
func (c *HTTPClient) SaveRooms(ctx context.Context, propertyID models.ID, rooms []models.Room) ([]models.Room, error) {
	var resp roomsPayload
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPut, propertyPath(propertyID)+"/rooms", roomsPayload{Rooms: rooms}, &resp); err != nil {
		return nil, err
	}
	if resp.Rooms == nil {
		return rooms, nil
	}
	return resp.Rooms, nil
}

func propertyPath(id models.ID) string {
	return "/api/properties/" + url.PathEscape(id.String())
}
