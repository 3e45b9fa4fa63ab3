package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadRoute = "/api/photos/upload/{id}"

func TestPhotoService_CaptureStagesWithPreview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.photos()

	p, err := svc.Capture(ctx, env.prop.ID, "r1", "dir/kitchen.PNG", strings.NewReader("png-bytes"), true)
	require.NoError(t, err)

	assert.Equal(t, models.UploadPending, p.UploadStatus)
	assert.Equal(t, "kitchen.PNG", p.FileName)
	assert.Equal(t, "image/png", p.ContentType)
	assert.True(t, p.MoveOut)
	assert.True(t, strings.HasPrefix(p.PreviewURL, "file://"), p.PreviewURL)
	assert.Empty(t, env.srv.AllCalls(), "capture does not touch the network")

	body, err := env.blobs.Open(ctx, p.BlobKey)
	require.NoError(t, err)
	defer body.Close()
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))

	staged, err := svc.Staged(ctx, env.prop.ID, "r1")
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, p.ID, staged[0].ID)
}

func TestPhotoService_CaptureRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.photos().Capture(context.Background(), env.prop.ID, "r1", "x.jpg", bytes.NewReader(nil), false)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPhotoService_UploadContinuesOnError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.photos().(*photoService)
	pid := env.prop.ID
	base, tick := time.Now(), 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	var staged []*models.StagedPhoto
	for _, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		p, err := svc.Capture(ctx, pid, "r1", name, strings.NewReader("bytes of "+name), false)
		require.NoError(t, err)
		staged = append(staged, p)
	}
	require.NoError(t, svc.SetStagedNote(ctx, staged[0].ID, " crack near window "))
	// the second blob vanished, so its upload fails before any request
	require.NoError(t, env.blobs.Delete(ctx, staged[1].BlobKey))

	batch, err := svc.UploadPending(ctx, pid, "r1", false)
	require.NoError(t, err)

	require.Len(t, batch.Uploaded, 2)
	require.Len(t, batch.Failed, 1)
	assert.Equal(t, staged[1].ID, batch.Failed[0].Staged.ID)

	uploads := env.srv.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "one.jpg", uploads[0].FileName, "sequential, in capture order")
	assert.Equal(t, "crack near window", uploads[0].Note)
	assert.Equal(t, "three.jpg", uploads[1].FileName)
	assert.Equal(t, models.ID("r1"), uploads[1].RoomID)
	assert.Equal(t, "bytes of three.jpg", string(uploads[1].Content))

	first, err := env.repos.Photos.Get(ctx, staged[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadCompleted, first.UploadStatus)
	assert.Equal(t, batch.Uploaded[0].ID, first.RemoteID)

	second, err := env.repos.Photos.Get(ctx, staged[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadFailed, second.UploadStatus)

	pending, err := env.repos.Photos.ListPending(ctx, pid, "r1", false)
	require.NoError(t, err)
	require.Len(t, pending, 1, "failed uploads are retried next time")
}

func TestPhotoService_UploadServerErrorMarksFailed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.photos()
	p, err := svc.Capture(ctx, env.prop.ID, "r1", "a.jpg", strings.NewReader("a"), true)
	require.NoError(t, err)
	env.srv.Fail(http.MethodPost, uploadRoute, http.StatusInternalServerError)

	batch, err := svc.UploadPending(ctx, env.prop.ID, "r1", true)
	require.NoError(t, err)
	assert.Empty(t, batch.Uploaded)
	require.Len(t, batch.Failed, 1)

	env.srv.Heal()
	batch, err = svc.UploadPending(ctx, env.prop.ID, "r1", true)
	require.NoError(t, err)
	require.Len(t, batch.Uploaded, 1)
	assert.True(t, batch.Uploaded[0].MoveOut)

	got, err := env.repos.Photos.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadCompleted, got.UploadStatus)
}

func TestPhotoService_AssociateAllContinuesOnError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	rep := env.srv.AddReport(models.Report{PropertyID: env.prop.ID})
	a := env.srv.AddPhoto(models.Photo{PropertyID: env.prop.ID, RoomID: "r1"})
	b := env.srv.AddPhoto(models.Photo{PropertyID: env.prop.ID, RoomID: "r2"})
	ref := models.RoomRef{RoomID: "r1", RoomName: "Kitchen"}

	batch := env.photos().AssociateAll(ctx, rep.ID, []ReportPhoto{
		{PhotoID: a.ID, Room: ref},
		{PhotoID: "missing", Room: ref},
		{PhotoID: b.ID, Room: models.RoomRef{RoomID: "r2", RoomName: "Bath"}},
	})

	assert.Equal(t, 2, batch.Associated)
	require.Contains(t, batch.Failed, models.ID("missing"))
	got, _ := env.srv.Photo(b.ID)
	assert.Equal(t, rep.ID, got.ReportID)
}

func TestPhotoService_TagsNotesAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.photos()
	photo := env.srv.AddPhoto(models.Photo{PropertyID: env.prop.ID, RoomID: "r1"})

	p, err := svc.AddTag(ctx, photo.ID, " damage ")
	require.NoError(t, err)
	p, err = svc.AddTag(ctx, photo.ID, "damage")
	require.NoError(t, err)
	assert.Equal(t, []string{"damage"}, p.Tags)

	p, err = svc.RemoveTag(ctx, photo.ID, "damage")
	require.NoError(t, err)
	p, err = svc.RemoveTag(ctx, photo.ID, "damage")
	require.NoError(t, err)
	assert.Empty(t, p.Tags)

	_, err = svc.AddTag(ctx, photo.ID, "  ")
	assert.ErrorIs(t, err, common.ErrValidation)

	p, err = svc.UpdateNote(ctx, photo.ID, "scratch on door")
	require.NoError(t, err)
	assert.Equal(t, "scratch on door", p.Note)

	staged := &models.StagedPhoto{ID: "s1", PropertyID: env.prop.ID, RoomID: "r1", BlobKey: "k", UploadStatus: models.UploadCompleted, RemoteID: photo.ID}
	require.NoError(t, env.repos.Photos.Create(ctx, staged))

	require.NoError(t, svc.Delete(ctx, photo.ID))
	_, ok := env.srv.Photo(photo.ID)
	assert.False(t, ok)
	_, err = env.repos.Photos.Get(ctx, "s1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
