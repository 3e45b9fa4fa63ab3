package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/services"
)

var roomTypes = []string{
	string(models.RoomTypeLiving),
	string(models.RoomTypeBedroom),
	string(models.RoomTypeKitchen),
	string(models.RoomTypeBathroom),
	string(models.RoomTypeOther),
}

// Rooms loads the rooms of the selected property. It always shows
// something: server rooms, the local drafts or placeholders.
func (a *App) Rooms(ctx context.Context) error {
	pid, err := a.currentProperty()
	if err != nil {
		return err
	}
	res := a.svc.Drafts.LoadRooms(ctx, pid)
	switch res.Source {
	case services.SourceLocal:
		fmt.Fprintln(a.out, "(offline: showing rooms saved on this device)")
	case services.SourcePlaceholder:
		fmt.Fprintln(a.out, "(no rooms yet: suggested rooms, 'room add' to configure one)")
	}
	a.printRooms(res.Rooms)
	return nil
}

func (a *App) printRooms(rooms []models.Room) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tMOVE-IN\tMOVE-OUT")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.RoomID, r.RoomName, r.RoomType,
			evidence(r.MoveInDocumented(), r.PhotoCount, len(r.RoomIssueNotes)),
			evidence(r.MoveOutDocumented(), r.MoveOutPhotoCount, len(r.MoveOutNotes)))
	}
	_ = tw.Flush()
}

func evidence(done bool, photos, notes int) string {
	if !done {
		return "-"
	}
	return fmt.Sprintf("%d photos, %d notes", photos, notes)
}

// AddRoom configures a new room, or an existing one when an id is given.
func (a *App) AddRoom(ctx context.Context, args []string) error {
	pid, err := a.currentProperty()
	if err != nil {
		return err
	}
	cfg := services.RoomConfig{}
	if len(args) > 0 {
		cfg.RoomID = models.ID(args[0])
	}
	typ, err := GetChoice(a.reader, "Room type", roomTypes, string(models.RoomTypeOther), a.out)
	if err != nil {
		return err
	}
	cfg.RoomType = models.RoomType(typ)
	if cfg.RoomName, err = getSimpleText(a.reader, "Room name (empty for default)", a.out); err != nil {
		return err
	}

	r, err := a.svc.Walkthrough.ConfigureRoom(ctx, pid, cfg)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.roomID = r.RoomID
	a.mu.Unlock()
	fmt.Fprintf(a.out, "Room %s (%s) saved and selected\n", r.RoomName, r.RoomID)
	return nil
}

func (a *App) UseRoom(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("room use <room-id>")
	}
	pid, err := a.currentProperty()
	if err != nil {
		return err
	}
	rooms, err := a.svc.Drafts.Rooms(ctx, pid)
	if err != nil {
		return err
	}
	r, ok := models.FindRoom(rooms, models.ID(args[0]))
	if !ok {
		return fmt.Errorf("room %s is not saved on this device, run 'rooms' or 'room add %s'", args[0], args[0])
	}
	a.mu.Lock()
	a.roomID = r.RoomID
	a.mu.Unlock()
	fmt.Fprintf(a.out, "Selected %s\n", r.RoomName)
	return nil
}

// DeleteRoom forgets a room on this device only.
func (a *App) DeleteRoom(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("room delete <room-id>")
	}
	pid, err := a.currentProperty()
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, "Remove room "+args[0]+" and its unsent photos from this device?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.svc.Drafts.DeleteRoom(ctx, pid, models.ID(args[0])); err != nil {
		return err
	}
	a.mu.Lock()
	if a.roomID == models.ID(args[0]) {
		a.roomID = ""
	}
	a.mu.Unlock()
	fmt.Fprintln(a.out, "Removed from this device")
	return nil
}

func (a *App) IssueNote(ctx context.Context) error {
	return a.addNote(ctx, "Describe the issue", a.svc.Walkthrough.AddIssueNote)
}

func (a *App) MoveOutNote(ctx context.Context) error {
	return a.addNote(ctx, "Move-out note", a.svc.Walkthrough.AddMoveOutNote)
}

func (a *App) addNote(ctx context.Context, prompt string,
	add func(context.Context, models.ID, models.ID, string) (models.Room, error)) error {
	pid, rid, err := a.currentRoom()
	if err != nil {
		return err
	}
	note, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	r, err := add(ctx, pid, rid, note)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved. %s has %d issue notes and %d move-out notes\n",
		r.RoomName, len(r.RoomIssueNotes), len(r.MoveOutNotes))
	return nil
}

func (a *App) Quality(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("quality <good|attention|none>")
	}
	pid, rid, err := a.currentRoom()
	if err != nil {
		return err
	}
	q := models.RoomQuality(args[0])
	if args[0] == "none" {
		q = ""
	}
	r, err := a.svc.Walkthrough.SetRoomQuality(ctx, pid, rid, q)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s quality: %s\n", r.RoomName, orNone(string(r.RoomQuality)))
	return nil
}

func (a *App) Progress(ctx context.Context) error {
	pid, err := a.currentProperty()
	if err != nil {
		return err
	}
	p, err := a.svc.Walkthrough.Progress(ctx, pid)
	if err != nil {
		return err
	}
	complete, err := a.svc.Walkthrough.IsComplete(ctx, pid)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Move-in: %d/%d rooms documented\n", p.MoveInDocumented, p.Total)
	fmt.Fprintf(a.out, "Move-out: %d/%d rooms documented\n", p.MoveOutDocumented, p.Total)
	if complete {
		fmt.Fprintln(a.out, "Walkthrough complete, ready to send")
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
