package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

// IsWalkthroughComplete reports whether every room has move-out evidence,
// a move-out photo or a move-out note. It gates sending a report. An empty
// list is complete.
func IsWalkthroughComplete(rooms []models.Room) bool {
	return len(Undocumented(rooms)) == 0
}

// Undocumented returns the rooms that still lack move-out evidence, in order.
func Undocumented(rooms []models.Room) []models.Room {
	var out []models.Room
	for _, r := range rooms {
		if !r.MoveOutDocumented() {
			out = append(out, r)
		}
	}
	return out
}

type Progress struct {
	Total             int
	MoveInDocumented  int
	MoveOutDocumented int
}

func ComputeProgress(rooms []models.Room) Progress {
	p := Progress{Total: len(rooms)}
	for _, r := range rooms {
		if r.MoveInDocumented() {
			p.MoveInDocumented++
		}
		if r.MoveOutDocumented() {
			p.MoveOutDocumented++
		}
	}
	return p
}

// RoomConfig is the input of the room configuration form. An empty RoomID
// creates a room, an empty RoomName takes the type's default name.
type RoomConfig struct {
	RoomID   models.ID
	RoomType models.RoomType
	RoomName string
}

type PhotosSource string

const (
	PhotosPublic        PhotosSource = "public"
	PhotosAuthenticated PhotosSource = "authenticated"
	PhotosCached        PhotosSource = "cached"
	PhotosEmpty         PhotosSource = "empty"
)

type PhotosResult struct {
	Photos []models.Photo
	Source PhotosSource
}

type WalkthroughService interface {
	ConfigureRoom(ctx context.Context, propertyID models.ID, cfg RoomConfig) (models.Room, error)
	// RoomPhotos never fails; it degrades to an empty list.
	RoomPhotos(ctx context.Context, propertyID, roomID models.ID) PhotosResult
	AddMoveOutNote(ctx context.Context, propertyID, roomID models.ID, note string) (models.Room, error)
	AddIssueNote(ctx context.Context, propertyID, roomID models.ID, note string) (models.Room, error)
	SetRoomQuality(ctx context.Context, propertyID, roomID models.ID, q models.RoomQuality) (models.Room, error)
	RecordUploads(ctx context.Context, propertyID, roomID models.ID, n int, moveOut bool) (models.Room, error)
	IsComplete(ctx context.Context, propertyID models.ID) (bool, error)
	Progress(ctx context.Context, propertyID models.ID) (Progress, error)
}

type walkthroughService struct {
	drafts DraftCache
	photos client.PhotoAPI
	meta   metadata.Repository
	nav    Navigator
	logger logging.Logger
	now    func() time.Time
}

func NewWalkthroughService(drafts DraftCache, photos client.PhotoAPI, meta metadata.Repository,
	nav Navigator, logger logging.Logger) WalkthroughService {
	return &walkthroughService{
		drafts: drafts,
		photos: photos,
		meta:   meta,
		nav:    nav,
		logger: logger.With("service", "walkthrough"),
		now:    time.Now,
	}
}

// ConfigureRoom saves the room and moves on to its photo screen. On failure
// the user stays on the form.
func (s *walkthroughService) ConfigureRoom(ctx context.Context, propertyID models.ID, cfg RoomConfig) (models.Room, error) {
	room := models.Room{RoomIssueNotes: []string{}, MoveOutNotes: []string{}}
	if cfg.RoomID != "" {
		cached, err := s.drafts.Rooms(ctx, propertyID)
		if err != nil {
			return models.Room{}, fmt.Errorf("%w: %w", common.ErrRoomNotSaved, err)
		}
		if existing, ok := models.FindRoom(cached, cfg.RoomID); ok {
			room = existing
		}
		room.RoomID = cfg.RoomID
	} else {
		id, err := models.NewRoomID(s.now())
		if err != nil {
			return models.Room{}, fmt.Errorf("%w: %w", common.ErrRoomNotSaved, err)
		}
		room.RoomID = id
	}

	room.RoomType = models.ParseRoomType(string(cfg.RoomType))
	room.RoomName = strings.TrimSpace(cfg.RoomName)
	if room.RoomName == "" {
		room.RoomName = room.RoomType.DefaultName()
	}

	if _, err := s.drafts.SaveRoom(ctx, propertyID, room); err != nil {
		return models.Room{}, err
	}
	navigate(ctx, s.nav, roomPhotosPath(propertyID.String(), room.RoomID.String()))
	return room, nil
}

func (s *walkthroughService) RoomPhotos(ctx context.Context, propertyID, roomID models.ID) PhotosResult {
	if res := s.photos.PublicReportPhotos(ctx, propertyID, roomID); res.Real() {
		s.cachePhotos(ctx, propertyID, roomID, res.Data)
		return PhotosResult{Photos: res.Data, Source: PhotosPublic}
	}

	list, err := s.photos.ListPhotos(ctx, propertyID, roomID)
	if err == nil {
		if list == nil {
			list = []models.Photo{}
		}
		s.cachePhotos(ctx, propertyID, roomID, list)
		return PhotosResult{Photos: list, Source: PhotosAuthenticated}
	}
	s.logger.Warn(ctx, "room photos not loaded", "property", propertyID, "room", roomID, "error", err)

	if cached, ok := s.cachedPhotos(ctx, propertyID, roomID); ok {
		return PhotosResult{Photos: cached, Source: PhotosCached}
	}
	return PhotosResult{Photos: []models.Photo{}, Source: PhotosEmpty}
}

func photosCacheKey(propertyID, roomID models.ID) string {
	return common.RoomKeyPrefix(propertyID.String(), roomID.String()) + "photos"
}

func (s *walkthroughService) cachePhotos(ctx context.Context, propertyID, roomID models.ID, list []models.Photo) {
	raw, err := json.Marshal(list)
	if err == nil {
		err = s.meta.Set(ctx, photosCacheKey(propertyID, roomID), raw)
	}
	if err != nil {
		s.logger.Warn(ctx, "cannot cache room photos", "room", roomID, "error", err)
	}
}

func (s *walkthroughService) cachedPhotos(ctx context.Context, propertyID, roomID models.ID) ([]models.Photo, bool) {
	raw, err := s.meta.Get(ctx, photosCacheKey(propertyID, roomID))
	if err != nil || raw == nil {
		return nil, false
	}
	var list []models.Photo
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

func (s *walkthroughService) AddMoveOutNote(ctx context.Context, propertyID, roomID models.ID, note string) (models.Room, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return models.Room{}, fmt.Errorf("%w: note is empty", common.ErrValidation)
	}
	return s.mutate(ctx, propertyID, roomID, func(r *models.Room) {
		r.MoveOutNotes = append(r.MoveOutNotes, note)
	})
}

func (s *walkthroughService) AddIssueNote(ctx context.Context, propertyID, roomID models.ID, note string) (models.Room, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return models.Room{}, fmt.Errorf("%w: note is empty", common.ErrValidation)
	}
	return s.mutate(ctx, propertyID, roomID, func(r *models.Room) {
		r.RoomIssueNotes = append(r.RoomIssueNotes, note)
	})
}

func (s *walkthroughService) SetRoomQuality(ctx context.Context, propertyID, roomID models.ID, q models.RoomQuality) (models.Room, error) {
	switch q {
	case "", models.RoomQualityGood, models.RoomQualityAttention:
	default:
		return models.Room{}, fmt.Errorf("%w: unknown room quality %q", common.ErrValidation, q)
	}
	return s.mutate(ctx, propertyID, roomID, func(r *models.Room) {
		r.RoomQuality = q
	})
}

// RecordUploads adds n freshly uploaded photos to the counter of one pass.
func (s *walkthroughService) RecordUploads(ctx context.Context, propertyID, roomID models.ID, n int, moveOut bool) (models.Room, error) {
	if n <= 0 {
		return s.room(ctx, propertyID, roomID)
	}
	return s.mutate(ctx, propertyID, roomID, func(r *models.Room) {
		if moveOut {
			r.MoveOutPhotoCount += n
			r.MoveOutDate = s.now().UTC().Format(time.RFC3339)
			return
		}
		r.PhotoCount += n
	})
}

func (s *walkthroughService) IsComplete(ctx context.Context, propertyID models.ID) (bool, error) {
	list, err := s.drafts.Rooms(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return IsWalkthroughComplete(list), nil
}

func (s *walkthroughService) Progress(ctx context.Context, propertyID models.ID) (Progress, error) {
	list, err := s.drafts.Rooms(ctx, propertyID)
	if err != nil {
		return Progress{}, err
	}
	return ComputeProgress(list), nil
}

func (s *walkthroughService) room(ctx context.Context, propertyID, roomID models.ID) (models.Room, error) {
	list, err := s.drafts.Rooms(ctx, propertyID)
	if err != nil {
		return models.Room{}, err
	}
	r, ok := models.FindRoom(list, roomID)
	if !ok {
		return models.Room{}, fmt.Errorf("room %s: %w", roomID, common.ErrorNotFound)
	}
	return r, nil
}

// mutate applies fn to the cached room and stages the result. A failed
// server sync is logged by the draft cache and does not fail the call.
func (s *walkthroughService) mutate(ctx context.Context, propertyID, roomID models.ID, fn func(*models.Room)) (models.Room, error) {
	r, err := s.room(ctx, propertyID, roomID)
	if err != nil {
		return models.Room{}, err
	}
	r.MoveOutNotes = append([]string{}, r.MoveOutNotes...)
	r.RoomIssueNotes = append([]string{}, r.RoomIssueNotes...)
	fn(&r)
	if _, err := s.drafts.StageRoom(ctx, propertyID, r); err != nil {
		return models.Room{}, err
	}
	return r, nil
}
