package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

type ReportService interface {
	List(ctx context.Context) ([]models.Report, error)
	ListByProperty(ctx context.Context, propertyID models.ID) ([]models.Report, error)
	Get(ctx context.Context, id models.ID) (*models.Report, error)
	Photos(ctx context.Context, id models.ID) ([]models.Photo, error)

	// Shared and SharedPhotos serve the landlord's anonymous view and never
	// fail; check Result.Fallback.
	Shared(ctx context.Context, uuid string) client.Result[models.Report]
	SharedPhotos(ctx context.Context, reportID models.ID) client.Result[[]models.Photo]

	UpdateTitle(ctx context.Context, id models.ID, title string) (*models.Report, error)
	Delete(ctx context.Context, id models.ID) error
	Archive(ctx context.Context, id models.ID) error

	Approve(ctx context.Context, id models.ID) error
	Reject(ctx context.Context, id models.ID, reason string) error
	PublicApprove(ctx context.Context, report models.Report) error
	PublicReject(ctx context.Context, report models.Report, reason string) error
	PublicNotify(ctx context.Context, report models.Report, origin string) error
}

type reportService struct {
	api    client.ReportAPI
	photos client.PhotoAPI
	logger logging.Logger
}

func NewReportService(api client.ReportAPI, photos client.PhotoAPI, logger logging.Logger) ReportService {
	return &reportService{api: api, photos: photos, logger: logger.With("service", "reports")}
}

func (s *reportService) List(ctx context.Context) ([]models.Report, error) {
	return s.api.ListReports(ctx)
}

func (s *reportService) ListByProperty(ctx context.Context, propertyID models.ID) ([]models.Report, error) {
	return s.api.ListPropertyReports(ctx, propertyID)
}

func (s *reportService) Get(ctx context.Context, id models.ID) (*models.Report, error) {
	return s.api.GetReport(ctx, id)
}

func (s *reportService) Photos(ctx context.Context, id models.ID) ([]models.Photo, error) {
	return s.photos.ReportPhotos(ctx, id)
}

func (s *reportService) Shared(ctx context.Context, uuid string) client.Result[models.Report] {
	return s.api.SharedReport(ctx, uuid)
}

func (s *reportService) SharedPhotos(ctx context.Context, reportID models.ID) client.Result[[]models.Photo] {
	return s.photos.PublicReportPhotos(ctx, reportID, "")
}

// guard loads the report and checks that allowed permits the action.
func (s *reportService) guard(ctx context.Context, id models.ID, action string,
	allowed func(models.Affordances) bool) (*models.Report, error) {
	r, err := s.api.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(r.Affordances()) {
		return nil, fmt.Errorf("%s report %s: %w", action, id, common.ErrReadOnly)
	}
	return r, nil
}

func (s *reportService) UpdateTitle(ctx context.Context, id models.ID, title string) (*models.Report, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is empty", common.ErrValidation)
	}
	r, err := s.guard(ctx, id, "edit", func(a models.Affordances) bool { return a.Edit })
	if err != nil {
		return nil, err
	}
	r.Title = title
	return s.api.UpdateReport(ctx, *r)
}

func (s *reportService) Delete(ctx context.Context, id models.ID) error {
	if _, err := s.guard(ctx, id, "delete", func(a models.Affordances) bool { return a.Delete }); err != nil {
		return err
	}
	return s.api.DeleteReport(ctx, id)
}

// Archive is terminal: an archived report offers no further action.
func (s *reportService) Archive(ctx context.Context, id models.ID) error {
	if _, err := s.guard(ctx, id, "archive", func(a models.Affordances) bool { return a.Archive }); err != nil {
		return err
	}
	return s.api.ArchiveReport(ctx, id)
}

func (s *reportService) Approve(ctx context.Context, id models.ID) error {
	return s.api.ApproveReport(ctx, id)
}

func (s *reportService) Reject(ctx context.Context, id models.ID, reason string) error {
	return s.api.RejectReport(ctx, id, strings.TrimSpace(reason))
}

func sharedTarget(r models.Report) error {
	if r.Dummy || r.ID == "" || r.UUID == "" {
		return fmt.Errorf("shared report %q is not loaded: %w", r.UUID, common.ErrReadOnly)
	}
	return nil
}

func (s *reportService) PublicApprove(ctx context.Context, r models.Report) error {
	if err := sharedTarget(r); err != nil {
		return err
	}
	return s.api.PublicApproveReport(ctx, r.ID, r.UUID)
}

func (s *reportService) PublicReject(ctx context.Context, r models.Report, reason string) error {
	if err := sharedTarget(r); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: a rejection needs a reason", common.ErrValidation)
	}
	return s.api.PublicRejectReport(ctx, r.ID, r.UUID, reason)
}

func (s *reportService) PublicNotify(ctx context.Context, r models.Report, origin string) error {
	if err := sharedTarget(r); err != nil {
		return err
	}
	err := s.api.PublicNotifyLandlord(ctx, r.ID, client.NotifyRequest{
		UUID:          r.UUID,
		ShareURL:      ShareURL(origin, r.UUID),
		LandlordEmail: r.LandlordEmail,
		LandlordName:  r.LandlordName,
		TenantName:    r.TenantName,
	})
	if err != nil {
		s.logger.Warn(ctx, "public notify failed", "report", r.ID, "error", err)
	}
	return err
}
