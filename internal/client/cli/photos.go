package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/services"
)

func moveOutArg(args []string) bool {
	for _, a := range args {
		if a == "move-out" || a == "--move-out" {
			return true
		}
	}
	return false
}

// Capture stages an image file for the selected room. Nothing is sent
// until 'upload'.
func (a *App) Capture(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("capture <file> [move-out]")
	}
	pid, rid, err := a.currentRoom()
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	sp, err := a.svc.Photos.Capture(ctx, pid, rid, filepath.Base(args[0]), f, moveOutArg(args[1:]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Staged %s (%s), preview %s\n", sp.FileName, sp.ContentType, sp.PreviewURL)
	return nil
}

func (a *App) Staged(ctx context.Context) error {
	pid, rid, err := a.currentRoom()
	if err != nil {
		return err
	}
	list, err := a.svc.Photos.Staged(ctx, pid, rid)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "Nothing staged")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tSTATUS\tMOVE-OUT\tNOTE")
	for _, sp := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", sp.ID, sp.FileName, sp.UploadStatus, sp.MoveOut, sp.Note)
	}
	return tw.Flush()
}

// Upload sends the pending photos of the selected room one by one and
// bumps the room's photo count by the number that made it.
func (a *App) Upload(ctx context.Context, args []string) error {
	pid, rid, err := a.currentRoom()
	if err != nil {
		return err
	}
	moveOut := moveOutArg(args)
	batch, err := a.svc.Photos.UploadPending(ctx, pid, rid, moveOut)
	if err != nil {
		return err
	}
	for _, f := range batch.Failed {
		fmt.Fprintf(a.out, "%s: %s\n", f.Staged.FileName, client.Message(f.Err))
	}
	if len(batch.Uploaded) == 0 {
		fmt.Fprintln(a.out, "Nothing uploaded")
		return nil
	}
	r, err := a.svc.Walkthrough.RecordUploads(ctx, pid, rid, len(batch.Uploaded), moveOut)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %d, failed %d. %s now has %d move-in and %d move-out photos\n",
		len(batch.Uploaded), len(batch.Failed), r.RoomName, r.PhotoCount, r.MoveOutPhotoCount)
	return nil
}

func (a *App) Photos(ctx context.Context) error {
	pid, rid, err := a.currentRoom()
	if err != nil {
		return err
	}
	res := a.svc.Walkthrough.RoomPhotos(ctx, pid, rid)
	switch res.Source {
	case services.PhotosEmpty:
		fmt.Fprintln(a.out, "No photos")
		return nil
	case services.PhotosCached:
		fmt.Fprintln(a.out, "(offline: showing photos saved on this device)")
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tURL\tTAGS\tNOTE")
	for _, p := range res.Photos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.URL, strings.Join(p.Tags, ","), p.Note)
	}
	return tw.Flush()
}

func (a *App) Tag(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage("tag <photo-id> <tag>")
	}
	p, err := a.svc.Photos.AddTag(ctx, models.ID(args[0]), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(p.Tags, ", "))
	return nil
}

func (a *App) Untag(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage("untag <photo-id> <tag>")
	}
	p, err := a.svc.Photos.RemoveTag(ctx, models.ID(args[0]), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(p.Tags, ", "))
	return nil
}

// PhotoNote sets the note of an uploaded photo, or of a staged one when
// the id is a staged id.
func (a *App) PhotoNote(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("photo note <photo-id>")
	}
	note, err := GetMultiline(a.reader, "Note", a.out)
	if err != nil {
		return err
	}
	if err := a.svc.Photos.SetStagedNote(ctx, args[0], note); err == nil {
		fmt.Fprintln(a.out, "Saved on the staged photo")
		return nil
	}
	if _, err := a.svc.Photos.UpdateNote(ctx, models.ID(args[0]), note); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved")
	return nil
}

func (a *App) DeletePhoto(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("photo delete <photo-id>")
	}
	if err := a.svc.Photos.Delete(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
