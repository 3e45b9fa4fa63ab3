package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `select id, property_id, room_id, blob_key, preview_url, content_type, file_name,
	note, move_out, upload_status, remote_id, created_at from staged_photos`

func (r *SQLiteRepository) Create(ctx context.Context, p *models.StagedPhoto) error {

	query := `INSERT INTO staged_photos (id, property_id, room_id, blob_key, preview_url, content_type,
				file_name, note, move_out, upload_status, remote_id, created_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET property_id = excluded.property_id,
				room_id = excluded.room_id,
				blob_key = excluded.blob_key,
				preview_url = excluded.preview_url,
				content_type = excluded.content_type,
				file_name = excluded.file_name,
				note = excluded.note,
				move_out = excluded.move_out,
				upload_status = excluded.upload_status,
				remote_id = excluded.remote_id
	`
	status := p.UploadStatus
	if status == "" {
		status = models.UploadPending
	}
	_, err := r.db.ExecContext(ctx, query, p.ID, p.PropertyID.String(), p.RoomID.String(), p.BlobKey,
		p.PreviewURL, p.ContentType, p.FileName, p.Note, p.MoveOut, string(status),
		p.RemoteID.String(), p.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert staged photo: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.StagedPhoto, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` where id=?`, id)

	p, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staged photo %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByRoom(ctx context.Context, propertyID, roomID models.ID) ([]*models.StagedPhoto, error) {
	return r.list(ctx, selectColumns+` where property_id=? and room_id=? order by created_at, id`,
		propertyID.String(), roomID.String())
}

func (r *SQLiteRepository) ListPending(ctx context.Context, propertyID, roomID models.ID, moveOut bool) ([]*models.StagedPhoto, error) {
	return r.list(ctx, selectColumns+` where property_id=? and room_id=? and move_out=?
		and upload_status in ('pending', 'failed') order by created_at, id`,
		propertyID.String(), roomID.String(), moveOut)
}

func (r *SQLiteRepository) MarkUploaded(ctx context.Context, id string, remoteID models.ID) error {
	query := `update staged_photos set upload_status='completed', remote_id=? where id=?`
	return r.updateOne(ctx, query, remoteID.String(), id)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id string) error {
	query := `update staged_photos set upload_status='failed' where id=?`
	return r.updateOne(ctx, query, id)
}

func (r *SQLiteRepository) DeleteByRemoteID(ctx context.Context, remoteID models.ID) error {
	if remoteID == "" {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `delete from staged_photos where remote_id=?`, remoteID.String())
	if err != nil {
		return fmt.Errorf("failed to delete staged photo: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByRoom(ctx context.Context, propertyID, roomID models.ID) error {
	_, err := r.db.ExecContext(ctx, `delete from staged_photos where property_id=? and room_id=?`,
		propertyID.String(), roomID.String())
	if err != nil {
		return fmt.Errorf("failed to delete staged photos of room %s: %w", roomID, err)
	}
	return nil
}

func (r *SQLiteRepository) updateOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update staged photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected != 1 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.StagedPhoto, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting staged photos: %w", err)
	}
	defer rows.Close()

	var result []*models.StagedPhoto

	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s scanner) (*models.StagedPhoto, error) {
	var (
		p                  models.StagedPhoto
		propertyID, roomID string
		status, remoteID   string
		createdAt          int64
	)
	err := s.Scan(&p.ID, &propertyID, &roomID, &p.BlobKey, &p.PreviewURL, &p.ContentType,
		&p.FileName, &p.Note, &p.MoveOut, &status, &remoteID, &createdAt)
	if err != nil {
		return nil, err
	}
	p.PropertyID = models.ID(propertyID)
	p.RoomID = models.ID(roomID)
	p.UploadStatus = models.UploadStatus(status)
	p.RemoteID = models.ID(remoteID)
	p.CreatedAt = time.UnixMilli(createdAt)
	return &p, nil
}
