package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/services"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
)

// Send assembles a report from the selected property's rooms, mails the
// landlord and shows the share link. Every room needs move-out evidence
// first.
func (a *App) Send(ctx context.Context, args []string) error {
	kind := models.ReportTypeMoveOut
	if len(args) > 0 {
		kind = models.ReportType(args[0])
		if !kind.Valid() {
			return errUsage("send [move-in|move-out|general]")
		}
	}
	pid, err := a.currentProperty()
	if err != nil {
		return err
	}
	if !a.svc.Assembler.CanSend() {
		return common.ErrSendInProgress
	}
	tenant := a.svc.Auth.User()
	if tenant == nil {
		return client.ErrUnauthorized
	}
	prop, err := a.svc.Properties.Get(ctx, pid)
	if err != nil {
		return err
	}
	rooms := a.svc.Drafts.LoadRooms(ctx, pid)
	if rooms.Source == services.SourcePlaceholder {
		return errors.New("no rooms configured yet, run 'room add' first")
	}
	if missing := services.Undocumented(rooms.Rooms); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, r := range missing {
			names = append(names, r.RoomName)
		}
		return fmt.Errorf("%w: add a move-out photo or note to %s", common.ErrWalkthroughOpen, strings.Join(names, ", "))
	}

	in := services.SendInput{Property: *prop, Rooms: rooms.Rooms, Tenant: *tenant, Type: kind}
	if in.Title, err = getSimpleText(a.reader, "Title (empty for default)", a.out); err != nil {
		return err
	}

	res, err := a.svc.Assembler.Send(ctx, in)
	if err != nil {
		return err
	}
	if n := len(res.Photos.Failed); n > 0 {
		fmt.Fprintf(a.out, "%d photos could not be attached to the report\n", n)
	}
	if res.NotifyErr != nil {
		fmt.Fprintf(a.out, "Report created but the landlord was not emailed: %s\n", client.Message(res.NotifyErr))
	}
	return a.ShareSuccess(ctx)
}

// ShareSuccess shows the outcome of the last send once.
func (a *App) ShareSuccess(ctx context.Context) error {
	s, err := a.svc.Assembler.ConsumeShareSuccess(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(a.out, "No report was sent recently")
		return nil
	}
	fmt.Fprintf(a.out, "Report shared. Send this link to your landlord:\n  %s\n", s.ShareURL)
	return nil
}

func (a *App) Reports(ctx context.Context, args []string) error {
	var (
		list []models.Report
		err  error
	)
	if len(args) > 0 && args[0] == "all" {
		list, err = a.svc.Reports.List(ctx)
	} else {
		pid, perr := a.currentProperty()
		if perr != nil {
			return perr
		}
		list, err = a.svc.Reports.ListByProperty(ctx, pid)
	}
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No reports")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tSTATUS\tCREATED")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Type, statusLabel(r), r.CreatedAt)
	}
	return tw.Flush()
}

func statusLabel(r models.Report) string {
	s := string(r.ApprovalStatus)
	if s == "" {
		s = "pending"
	}
	if r.IsArchived {
		s += " (archived)"
	}
	return s
}

func (a *App) Report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("report <report-id>")
	}
	r, err := a.svc.Reports.Get(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	a.printReport(*r)
	if photos, err := a.svc.Reports.Photos(ctx, r.ID); err == nil {
		fmt.Fprintf(a.out, "%d photos\n", len(photos))
	}
	aff := r.Affordances()
	fmt.Fprintf(a.out, "Allowed: edit=%t delete=%t archive=%t\n", aff.Edit, aff.Delete, aff.Archive)
	return nil
}

func (a *App) printReport(r models.Report) {
	fmt.Fprintf(a.out, "%s\n%s, %s\n", r.Title, r.Address, statusLabel(r))
	if r.RejectionMessage != "" {
		fmt.Fprintf(a.out, "Rejected: %s\n", r.RejectionMessage)
	}
	fmt.Fprintf(a.out, "Tenant %s <%s>, landlord %s <%s>\n", r.TenantName, r.TenantEmail, r.LandlordName, r.LandlordEmail)
	for _, room := range r.Rooms {
		fmt.Fprintf(a.out, "  %s (%s): %d move-in, %d move-out photos\n", room.Name, room.Type, room.PhotoCount, room.MoveOutPhotoCount)
		for _, n := range room.IssueNotes {
			fmt.Fprintf(a.out, "    issue: %s\n", n)
		}
		for _, n := range room.Notes {
			fmt.Fprintf(a.out, "    note: %s\n", n)
		}
	}
}

func (a *App) RenameReport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("report rename <report-id>")
	}
	title, err := getSimpleText(a.reader, "New title", a.out)
	if err != nil {
		return err
	}
	if _, err := a.svc.Reports.UpdateTitle(ctx, models.ID(args[0]), title); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Renamed")
	return nil
}

func (a *App) ArchiveReport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("report archive <report-id>")
	}
	if err := a.svc.Reports.Archive(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Archived")
	return nil
}

func (a *App) DeleteReport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("report delete <report-id>")
	}
	ok, err := Confirm(a.reader, "Delete report "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.svc.Reports.Delete(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// Shared is the landlord's view of a report, opened by its share uuid.
// No login is needed.
func (a *App) Shared(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("shared <uuid> [approve | reject <reason> | notify]")
	}
	decision, reason := "", ""
	if len(args) > 1 {
		decision = args[1]
	}
	if len(args) > 2 {
		reason = strings.Join(args[2:], " ")
	}
	return a.ShowShared(ctx, args[0], decision, reason)
}

// ShowShared prints a shared report and applies an optional landlord
// decision to it.
func (a *App) ShowShared(ctx context.Context, uuid, decision, reason string) error {
	res := a.svc.Reports.Shared(ctx, uuid)
	if res.Fallback {
		fmt.Fprintf(a.out, "%s: %s\n", res.Data.Title, client.Message(res.Err))
		return nil
	}
	r := res.Data
	a.printReport(r)
	if photos := a.svc.Reports.SharedPhotos(ctx, r.ID); photos.Real() {
		for _, p := range photos.Data {
			fmt.Fprintf(a.out, "  photo %s %s\n", p.ID, p.URL)
		}
	}

	switch decision {
	case "":
		return nil
	case "approve":
		if err := a.svc.Reports.PublicApprove(ctx, r); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Report approved")
	case "reject":
		if err := a.svc.Reports.PublicReject(ctx, r, reason); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Report rejected")
	case "notify":
		if err := a.svc.Reports.PublicNotify(ctx, r, a.config.Origin()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Landlord notified")
	default:
		return errUsage("shared <uuid> [approve | reject <reason> | notify]")
	}
	return nil
}
