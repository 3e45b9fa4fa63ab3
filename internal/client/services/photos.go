package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/blobstore"
	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/photos"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
	"github.com/google/uuid"
)

type UploadFailure struct {
	Staged *models.StagedPhoto
	Err    error
}

// UploadBatch is the outcome of a sequential upload. Failures do not stop
// the batch.
type UploadBatch struct {
	Uploaded []models.Photo
	Failed   []UploadFailure
}

// ReportPhoto pairs an uploaded photo with the room it documents.
type ReportPhoto struct {
	PhotoID models.ID
	Room    models.RoomRef
}

type AssociationBatch struct {
	Associated int
	Failed     map[models.ID]error
}

type PhotoService interface {
	// Capture stores the bytes locally and records a pending staged photo
	// whose PreviewURL can be shown at once.
	Capture(ctx context.Context, propertyID, roomID models.ID, name string, r io.Reader, moveOut bool) (*models.StagedPhoto, error)
	Staged(ctx context.Context, propertyID, roomID models.ID) ([]*models.StagedPhoto, error)
	SetStagedNote(ctx context.Context, stagedID, note string) error

	UploadPending(ctx context.Context, propertyID, roomID models.ID, moveOut bool) (UploadBatch, error)
	Upload(ctx context.Context, staged []*models.StagedPhoto) UploadBatch

	AssociateWithReport(ctx context.Context, photoID, reportID models.ID, room models.RoomRef) error
	AssociateAll(ctx context.Context, reportID models.ID, list []ReportPhoto) AssociationBatch

	AddTag(ctx context.Context, photoID models.ID, tag string) (*models.Photo, error)
	RemoveTag(ctx context.Context, photoID models.ID, tag string) (*models.Photo, error)
	UpdateNote(ctx context.Context, photoID models.ID, note string) (*models.Photo, error)
	Delete(ctx context.Context, photoID models.ID) error
}

type photoService struct {
	api    client.PhotoAPI
	repo   photos.Repository
	blobs  blobstore.Store
	logger logging.Logger
	now    func() time.Time
}

func NewPhotoService(api client.PhotoAPI, repo photos.Repository, blobs blobstore.Store, logger logging.Logger) PhotoService {
	return &photoService{
		api:    api,
		repo:   repo,
		blobs:  blobs,
		logger: logger.With("service", "photos"),
		now:    time.Now,
	}
}

func (s *photoService) Capture(ctx context.Context, propertyID, roomID models.ID, name string, r io.Reader,
	moveOut bool) (*models.StagedPhoto, error) {
	if propertyID == "" || roomID == "" {
		return nil, fmt.Errorf("%w: property and room are required", common.ErrValidation)
	}
	br := bufio.NewReader(r)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("%w: photo is empty", common.ErrValidation)
	}

	id := uuid.NewString()
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = id + ".jpg"
	}
	contentType := contentTypeOf(name, head)
	key := path.Join(propertyID.String(), roomID.String(), id+path.Ext(name))

	if err := s.blobs.Put(ctx, key, br, contentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}
	preview, err := s.blobs.PreviewURL(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "no preview for staged photo", "key", key, "error", err)
	}

	p := &models.StagedPhoto{
		ID:           id,
		PropertyID:   propertyID,
		RoomID:       roomID,
		BlobKey:      key,
		PreviewURL:   preview,
		ContentType:  contentType,
		FileName:     name,
		MoveOut:      moveOut,
		UploadStatus: models.UploadPending,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		_ = s.blobs.Delete(ctx, key)
		return nil, fmt.Errorf("stage photo: %w", err)
	}
	return p, nil
}

func contentTypeOf(name string, head []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}
	return http.DetectContentType(head)
}

func (s *photoService) Staged(ctx context.Context, propertyID, roomID models.ID) ([]*models.StagedPhoto, error) {
	return s.repo.ListByRoom(ctx, propertyID, roomID)
}

func (s *photoService) SetStagedNote(ctx context.Context, stagedID, note string) error {
	p, err := s.repo.Get(ctx, stagedID)
	if err != nil {
		return err
	}
	p.Note = strings.TrimSpace(note)
	return s.repo.Create(ctx, p)
}

func (s *photoService) UploadPending(ctx context.Context, propertyID, roomID models.ID, moveOut bool) (UploadBatch, error) {
	pending, err := s.repo.ListPending(ctx, propertyID, roomID, moveOut)
	if err != nil {
		return UploadBatch{}, fmt.Errorf("list pending photos: %w", err)
	}
	return s.Upload(ctx, pending), nil
}

// Upload sends the photos one by one, in order.
func (s *photoService) Upload(ctx context.Context, staged []*models.StagedPhoto) UploadBatch {
	var batch UploadBatch
	for _, p := range staged {
		if err := ctx.Err(); err != nil {
			batch.Failed = append(batch.Failed, UploadFailure{Staged: p, Err: err})
			continue
		}
		uploaded, err := s.uploadOne(ctx, p)
		if err != nil {
			s.logger.Warn(ctx, "photo upload failed", "staged", p.ID, "room", p.RoomID, "error", err)
			if merr := s.repo.MarkFailed(ctx, p.ID); merr != nil {
				s.logger.Warn(ctx, "cannot mark upload failed", "staged", p.ID, "error", merr)
			}
			batch.Failed = append(batch.Failed, UploadFailure{Staged: p, Err: err})
			continue
		}
		if err := s.repo.MarkUploaded(ctx, p.ID, uploaded.ID); err != nil {
			s.logger.Warn(ctx, "cannot mark upload completed", "staged", p.ID, "error", err)
		}
		p.UploadStatus = models.UploadCompleted
		p.RemoteID = uploaded.ID
		batch.Uploaded = append(batch.Uploaded, *uploaded)
	}
	s.logger.Info(ctx, "upload batch done", "uploaded", len(batch.Uploaded), "failed", len(batch.Failed))
	return batch
}

func (s *photoService) uploadOne(ctx context.Context, p *models.StagedPhoto) (*models.Photo, error) {
	body, err := s.blobs.Open(ctx, p.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("open staged photo: %w", err)
	}
	defer body.Close()

	return s.api.UploadPhoto(ctx, p.PropertyID, client.PhotoUpload{
		RoomID:      p.RoomID,
		Note:        p.Note,
		MoveOut:     p.MoveOut,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		Body:        body,
	})
}

func (s *photoService) AssociateWithReport(ctx context.Context, photoID, reportID models.ID, room models.RoomRef) error {
	if err := s.api.AssociatePhoto(ctx, photoID, reportID, room); err != nil {
		return fmt.Errorf("associate photo %s: %w", photoID, err)
	}
	return nil
}

func (s *photoService) AssociateAll(ctx context.Context, reportID models.ID, list []ReportPhoto) AssociationBatch {
	batch := AssociationBatch{Failed: map[models.ID]error{}}
	for _, rp := range list {
		if err := s.AssociateWithReport(ctx, rp.PhotoID, reportID, rp.Room); err != nil {
			s.logger.Warn(ctx, "photo not associated", "photo", rp.PhotoID, "report", reportID, "error", err)
			batch.Failed[rp.PhotoID] = err
			continue
		}
		batch.Associated++
	}
	return batch
}

func normalizeTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", fmt.Errorf("%w: tag is empty", common.ErrValidation)
	}
	return tag, nil
}

func (s *photoService) AddTag(ctx context.Context, photoID models.ID, tag string) (*models.Photo, error) {
	tag, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}
	return s.api.AddPhotoTag(ctx, photoID, tag)
}

func (s *photoService) RemoveTag(ctx context.Context, photoID models.ID, tag string) (*models.Photo, error) {
	tag, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}
	return s.api.RemovePhotoTag(ctx, photoID, tag)
}

func (s *photoService) UpdateNote(ctx context.Context, photoID models.ID, note string) (*models.Photo, error) {
	return s.api.UpdatePhotoNote(ctx, photoID, strings.TrimSpace(note))
}

func (s *photoService) Delete(ctx context.Context, photoID models.ID) error {
	if err := s.api.DeletePhoto(ctx, photoID); err != nil {
		return fmt.Errorf("delete photo %s: %w", photoID, err)
	}
	if err := s.repo.DeleteByRemoteID(ctx, photoID); err != nil {
		s.logger.Warn(ctx, "cannot drop staged copy", "photo", photoID, "error", err)
	}
	return nil
}
