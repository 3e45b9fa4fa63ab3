package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

func (c *HTTPClient) ListReports(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, "/api/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *HTTPClient) ListPropertyReports(ctx context.Context, propertyID models.ID) ([]models.Report, error) {
	reports := []models.Report{}
	path := "/api/reports/property/" + url.PathEscape(propertyID.String())
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *HTTPClient) GetReport(ctx context.Context, id models.ID) (*models.Report, error) {
	var r models.Report
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, reportPath(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SharedReport loads a report by its share UUID without authentication. It
// never fails: on error the placeholder carries the requested uuid.
func (c *HTTPClient) SharedReport(ctx context.Context, uuid string) Result[models.Report] {
	return FetchPublic(ctx, c, "/api/reports/uuid/"+url.PathEscape(uuid), models.PlaceholderReport(uuid))
}

func (c *HTTPClient) CreateReport(ctx context.Context, r models.Report) (*models.Report, error) {
	var created models.Report
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPost, "/api/reports", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateReport(ctx context.Context, r models.Report) (*models.Report, error) {
	var updated models.Report
	if err := c.Request(ctx, ModeAuthenticated, http.MethodPut, reportPath(r.ID), r, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteReport(ctx context.Context, id models.ID) error {
	return c.Request(ctx, ModeAuthenticated, http.MethodDelete, reportPath(id), nil, nil)
}

func (c *HTTPClient) ArchiveReport(ctx context.Context, id models.ID) error {
	return c.Request(ctx, ModeAuthenticated, http.MethodPut, reportPath(id)+"/archive", nil, nil)
}

func (c *HTTPClient) ApproveReport(ctx context.Context, id models.ID) error {
	return c.Request(ctx, ModeAuthenticated, http.MethodPut, reportPath(id)+"/approve", nil, nil)
}

func (c *HTTPClient) RejectReport(ctx context.Context, id models.ID, reason string) error {
	body := map[string]string{"rejection_message": reason}
	return c.Request(ctx, ModeAuthenticated, http.MethodPut, reportPath(id)+"/reject", body, nil)
}

// PublicApproveReport is the landlord's approval from the shared view. The
// uuid proves access instead of a token.
func (c *HTTPClient) PublicApproveReport(ctx context.Context, id models.ID, uuid string) error {
	body := map[string]string{"uuid": uuid}
	return c.Request(ctx, ModePublic, http.MethodPut, reportPath(id)+"/public-approve", body, nil)
}

func (c *HTTPClient) PublicRejectReport(ctx context.Context, id models.ID, uuid, reason string) error {
	body := map[string]string{"uuid": uuid, "rejection_message": reason}
	return c.Request(ctx, ModePublic, http.MethodPut, reportPath(id)+"/public-reject", body, nil)
}

func (c *HTTPClient) NotifyLandlord(ctx context.Context, id models.ID, req NotifyRequest) error {
	return c.Request(ctx, ModeAuthenticated, http.MethodPost, reportPath(id)+"/notify", req, nil)
}

func (c *HTTPClient) PublicNotifyLandlord(ctx context.Context, id models.ID, req NotifyRequest) error {
	return c.Request(ctx, ModePublic, http.MethodPost, reportPath(id)+"/public-notify", req, nil)
}

func reportPath(id models.ID) string {
	return "/api/reports/" + url.PathEscape(id.String())
}
