package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

func (c *HTTPClient) ListPhotos(ctx context.Context, propertyID, roomID models.ID) ([]models.Photo, error) {
	q := url.Values{}
	q.Set("property_id", propertyID.String())
	if roomID != "" {
		q.Set("room_id", roomID.String())
	}
	photos := []models.Photo{}
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, "/api/photos?"+q.Encode(), nil, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *HTTPClient) GetPhoto(ctx context.Context, id models.ID) (*models.Photo, error) {
	var p models.Photo
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, photoPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ReportPhotos(ctx context.Context, reportID models.ID) ([]models.Photo, error) {
	photos := []models.Photo{}
	path := "/api/photos/report/" + url.PathEscape(reportID.String())
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, path, nil, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// PublicReportPhotos lists photos without authentication. id is a report
// id or a property id; roomID narrows the list when set. On failure the
// result is an empty list.
func (c *HTTPClient) PublicReportPhotos(ctx context.Context, id, roomID models.ID) Result[[]models.Photo] {
	path := "/api/photos/public-report/" + url.PathEscape(id.String())
	if roomID != "" {
		path += "?" + url.Values{"room_id": {roomID.String()}}.Encode()
	}
	res := FetchPublic(ctx, c, path, []models.Photo{})
	if res.Data == nil {
		res.Data = []models.Photo{}
	}
	return res
}

// UploadPhoto sends one image as multipart/form-data with the fields
// photo, room_id, note and move_out.
func (c *HTTPClient) UploadPhoto(ctx context.Context, propertyID models.ID, up PhotoUpload) (*models.Photo, error) {
	fields := map[string]string{
		"room_id":  up.RoomID.String(),
		"note":     up.Note,
		"move_out": strconv.FormatBool(up.MoveOut),
	}
	file := FilePart{Field: "photo", FileName: up.FileName, ContentType: up.ContentType, Body: up.Body}
	path := "/api/photos/upload/" + url.PathEscape(propertyID.String())

	var p models.Photo
	if err := c.RequestMultipart(ctx, ModeAuthenticated, http.MethodPost, path, fields, file, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) AssociatePhoto(ctx context.Context, photoID, reportID models.ID, room models.RoomRef) error {
	body := struct {
		ReportID models.ID `json:"report_id"`
		models.RoomRef
	}{ReportID: reportID, RoomRef: room}
	return c.Request(ctx, ModeAuthenticated, http.MethodPut, photoPath(photoID)+"/report", body, nil)
}

func (c *HTTPClient) UpdatePhotoNote(ctx context.Context, id models.ID, note string) (*models.Photo, error) {
	var p models.Photo
	body := map[string]string{"note": note}
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPut, photoPath(id)+"/note", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) AddPhotoTag(ctx context.Context, id models.ID, tag string) (*models.Photo, error) {
	var p models.Photo
	body := map[string]string{"tag": tag}
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPost, photoPath(id)+"/tags", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) RemovePhotoTag(ctx context.Context, id models.ID, tag string) (*models.Photo, error) {
	var p models.Photo
	path := photoPath(id) + "/tags/" + url.PathEscape(tag)
	if err := c.Request(ctx, ModeAuthenticated, http.MethodDelete, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePhoto(ctx context.Context, id models.ID) error {
	return c.Request(ctx, ModeAuthenticated, http.MethodDelete, photoPath(id), nil, nil)
}

func photoPath(id models.ID) string {
	return "/api/photos/" + url.PathEscape(id.String())
}
