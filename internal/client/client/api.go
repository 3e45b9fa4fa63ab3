package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

// AuthResponse is the answer of login and register. A registration that
// needs email verification carries NeedsVerification and UserID instead of
// a token.
type AuthResponse struct {
	Token             string       `json:"token"`
	User              *models.User `json:"user,omitempty"`
	Message           string       `json:"message,omitempty"`
	NeedsVerification bool         `json:"needsVerification,omitempty"`
	UserID            models.ID    `json:"userId,omitempty"`
}

// PhotoUpload describes one file of the upload endpoint.
type PhotoUpload struct {
	RoomID      models.ID
	Note        string
	MoveOut     bool
	FileName    string
	ContentType string
	Body        io.Reader
}

// NotifyRequest asks the backend to email the landlord a share link.
type NotifyRequest struct {
	UUID          string `json:"uuid,omitempty"`
	ShareURL      string `json:"share_url"`
	LandlordEmail string `json:"landlord_email,omitempty"`
	LandlordName  string `json:"landlord_name,omitempty"`
	TenantName    string `json:"tenant_name,omitempty"`
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*AuthResponse, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Viewer(ctx context.Context) Result[*models.User]
	Ping(ctx context.Context) error
}

type PropertyAPI interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id models.ID) (*models.Property, error)
	CreateProperty(ctx context.Context, p models.Property) (*models.Property, error)
	UpdateProperty(ctx context.Context, p models.Property) (*models.Property, error)
	DeleteProperty(ctx context.Context, id models.ID) error
}

type RoomAPI interface {
	GetRooms(ctx context.Context, propertyID models.ID) ([]models.Room, error)
	SaveRooms(ctx context.Context, propertyID models.ID, rooms []models.Room) ([]models.Room, error)
}

type ReportAPI interface {
	ListReports(ctx context.Context) ([]models.Report, error)
	ListPropertyReports(ctx context.Context, propertyID models.ID) ([]models.Report, error)
	GetReport(ctx context.Context, id models.ID) (*models.Report, error)
	SharedReport(ctx context.Context, uuid string) Result[models.Report]
	CreateReport(ctx context.Context, r models.Report) (*models.Report, error)
	UpdateReport(ctx context.Context, r models.Report) (*models.Report, error)
	DeleteReport(ctx context.Context, id models.ID) error
	ArchiveReport(ctx context.Context, id models.ID) error
	ApproveReport(ctx context.Context, id models.ID) error
	RejectReport(ctx context.Context, id models.ID, reason string) error
	PublicApproveReport(ctx context.Context, id models.ID, uuid string) error
	PublicRejectReport(ctx context.Context, id models.ID, uuid, reason string) error
	NotifyLandlord(ctx context.Context, id models.ID, req NotifyRequest) error
	PublicNotifyLandlord(ctx context.Context, id models.ID, req NotifyRequest) error
}

type PhotoAPI interface {
	ListPhotos(ctx context.Context, propertyID, roomID models.ID) ([]models.Photo, error)
	GetPhoto(ctx context.Context, id models.ID) (*models.Photo, error)
	ReportPhotos(ctx context.Context, reportID models.ID) ([]models.Photo, error)
	PublicReportPhotos(ctx context.Context, id, roomID models.ID) Result[[]models.Photo]
	UploadPhoto(ctx context.Context, propertyID models.ID, up PhotoUpload) (*models.Photo, error)
	AssociatePhoto(ctx context.Context, photoID, reportID models.ID, room models.RoomRef) error
	UpdatePhotoNote(ctx context.Context, id models.ID, note string) (*models.Photo, error)
	AddPhotoTag(ctx context.Context, id models.ID, tag string) (*models.Photo, error)
	RemovePhotoTag(ctx context.Context, id models.ID, tag string) (*models.Photo, error)
	DeletePhoto(ctx context.Context, id models.ID) error
}

// Client is the whole backend surface. HTTPClient implements it; services
// depend on the narrower interfaces above.
type Client interface {
	AuthAPI
	PropertyAPI
	RoomAPI
	ReportAPI
	PhotoAPI
}

var _ Client = (*HTTPClient)(nil)
