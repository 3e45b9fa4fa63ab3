package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
	"github.com/google/uuid"
)

type SendInput struct {
	Property models.Property
	Rooms    []models.Room
	Tenant   models.User
	// Title defaults to "Move-out report - <address>".
	Title string
	// Type defaults to move-out.
	Type models.ReportType
}

type SendResult struct {
	Report   models.Report
	UUID     string
	ShareURL string
	Photos   AssociationBatch
	// NotifyErr is set when the landlord email could not be sent. The
	// report exists and the share link works regardless.
	NotifyErr error
}

// ShareSuccess is what the share-success screen shows once.
type ShareSuccess struct {
	ShareURL   string
	UUID       string
	PropertyID models.ID
}

type ReportAssembler interface {
	Send(ctx context.Context, in SendInput) (*SendResult, error)
	// CanSend is false while a Send is running.
	CanSend() bool
	// ConsumeShareSuccess returns nil when no send finished since the last
	// call.
	ConsumeShareSuccess(ctx context.Context) (*ShareSuccess, error)
}

type reportAssembler struct {
	reports client.ReportAPI
	photos  client.PhotoAPI
	linker  PhotoService
	meta    metadata.Repository
	nav     Navigator
	logger  logging.Logger
	origin  string
	newUUID func() string

	sending atomic.Bool
}

// NewReportAssembler builds share links as <origin>/reports/shared/<uuid>.
func NewReportAssembler(reports client.ReportAPI, photos client.PhotoAPI, linker PhotoService,
	meta metadata.Repository, nav Navigator, logger logging.Logger, origin string) ReportAssembler {
	return &reportAssembler{
		reports: reports,
		photos:  photos,
		linker:  linker,
		meta:    meta,
		nav:     nav,
		logger:  logger.With("service", "assembler"),
		origin:  strings.TrimRight(origin, "/"),
		newUUID: uuid.NewString,
	}
}

func (a *reportAssembler) CanSend() bool {
	return !a.sending.Load()
}

func ShareURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + "/reports/shared/" + id
}

func (a *reportAssembler) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	if !a.sending.CompareAndSwap(false, true) {
		return nil, common.ErrSendInProgress
	}
	defer a.sending.Store(false)

	if in.Property.ID == "" {
		return nil, fmt.Errorf("%w: property is required", common.ErrValidation)
	}
	candidate := a.newUUID()
	log := a.logger.With("property", in.Property.ID)

	linked := a.collectPhotos(ctx, in.Property.ID, in.Rooms)

	payload := a.buildReport(in, candidate)
	created, err := a.reports.CreateReport(ctx, payload)
	if err != nil {
		log.Error(ctx, "report not created", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrReportNotCreated, err)
	}

	id := candidate
	if created.UUID != "" {
		id = created.UUID
	}
	created.UUID = id
	res := &SendResult{Report: *created, UUID: id, ShareURL: ShareURL(a.origin, id)}

	res.Photos = a.linker.AssociateAll(ctx, created.ID, linked)

	err = a.reports.NotifyLandlord(ctx, created.ID, client.NotifyRequest{
		UUID:          id,
		ShareURL:      res.ShareURL,
		LandlordEmail: in.Property.LandlordEmail,
		LandlordName:  in.Property.LandlordName,
		TenantName:    in.Tenant.Name,
	})
	if err != nil {
		log.Warn(ctx, "landlord not notified", "report", created.ID, "error", err)
		res.NotifyErr = err
	}

	a.rememberShare(ctx, res, in.Property.ID)
	log.Info(ctx, "report sent", "report", created.ID, "uuid", id, "photos", res.Photos.Associated)
	navigate(ctx, a.nav, PathShareSuccess)
	return res, nil
}

// collectPhotos lists the uploaded photos of every room. A room whose
// photos cannot be listed is skipped.
func (a *reportAssembler) collectPhotos(ctx context.Context, propertyID models.ID, rooms []models.Room) []ReportPhoto {
	var out []ReportPhoto
	for _, r := range rooms {
		list, err := a.photos.ListPhotos(ctx, propertyID, r.RoomID)
		if err != nil {
			a.logger.Warn(ctx, "room photos skipped", "room", r.RoomID, "error", err)
			continue
		}
		ref := models.RoomRef{RoomID: r.RoomID, RoomName: r.RoomName}
		for _, p := range list {
			out = append(out, ReportPhoto{PhotoID: p.ID, Room: ref})
		}
	}
	return out
}

func (a *reportAssembler) buildReport(in SendInput, candidate string) models.Report {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Move-out report - " + in.Property.Address
	}
	typ := in.Type
	if typ == "" {
		typ = models.ReportTypeMoveOut
	}
	snapshots := make([]models.RoomSnapshot, 0, len(in.Rooms))
	for _, r := range in.Rooms {
		snapshots = append(snapshots, models.SnapshotRoom(r))
	}
	return models.Report{
		UUID:          candidate,
		Title:         title,
		Type:          typ,
		PropertyID:    in.Property.ID,
		Address:       in.Property.Address,
		TenantName:    in.Tenant.Name,
		TenantEmail:   in.Tenant.Email,
		LandlordName:  in.Property.LandlordName,
		LandlordEmail: in.Property.LandlordEmail,
		Rooms:         snapshots,
	}
}

func (a *reportAssembler) rememberShare(ctx context.Context, res *SendResult, propertyID models.ID) {
	err := a.meta.SetMany(ctx, map[string][]byte{
		common.KeyReportShareSuccess:   []byte("true"),
		common.KeyReportShareURL:       []byte(res.ShareURL),
		common.KeyReportUUID:           []byte(res.UUID),
		common.KeyLastSharedPropertyID: []byte(propertyID.String()),
	})
	if err != nil {
		a.logger.Warn(ctx, "cannot store share state", "report", res.Report.ID, "error", err)
	}
}

func (a *reportAssembler) ConsumeShareSuccess(ctx context.Context) (*ShareSuccess, error) {
	flag, err := a.meta.Get(ctx, common.KeyReportShareSuccess)
	if err != nil {
		return nil, err
	}
	if string(flag) != "true" {
		return nil, nil
	}
	out := &ShareSuccess{}
	for key, dst := range map[string]*string{
		common.KeyReportShareURL: &out.ShareURL,
		common.KeyReportUUID:     &out.UUID,
	} {
		v, err := a.meta.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		*dst = string(v)
	}
	pid, err := a.meta.Get(ctx, common.KeyLastSharedPropertyID)
	if err != nil {
		return nil, err
	}
	out.PropertyID = models.ID(pid)

	err = a.meta.DeleteKeys(ctx, common.KeyReportShareSuccess, common.KeyReportShareURL,
		common.KeyReportUUID, common.KeyLastSharedPropertyID)
	if err != nil {
		return nil, err
	}
	return out, nil
}
