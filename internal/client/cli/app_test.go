package cli

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/config"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
	"github.com/dmitrijs2005/depositkeeper/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	srv  *fakeapi.Server
	prop models.Property
	out  *bytes.Buffer
}

// newTestApp builds the real App against the fake backend. input feeds
// every prompt the commands ask.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	srv := fakeapi.New(t)
	srv.AddUser("Tess Tenant", "tess@example.com", "secret")
	prop := srv.AddProperty(models.Property{
		Address:       "1 Main St",
		PropertyType:  "apartment",
		LandlordName:  "Larry Landlord",
		LandlordEmail: "larry@example.com",
	})

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIURL = srv.URL
	cfg.DatabasePath = filepath.Join(t.TempDir(), "cache.db")
	cfg.PhotoDir = filepath.Join(t.TempDir(), "photos")
	cfg.PublicRequestTimeout = time.Second

	app, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	out := &bytes.Buffer{}
	app.out = out
	app.reader = bufio.NewReader(strings.NewReader(input))
	return &testApp{App: app, srv: srv, prop: prop, out: out}
}

func (ta *testApp) login(t *testing.T) {
	t.Helper()
	res := ta.svc.Auth.Login(context.Background(), "tess@example.com", "secret")
	require.True(t, res.Success, res.Message)
}

func TestIsLoggedIn(t *testing.T) {
	assert.False(t, (&App{}).isLoggedIn())

	ta := newTestApp(t, "")
	assert.False(t, ta.isLoggedIn())
	ta.login(t)
	assert.True(t, ta.isLoggedIn())

	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Equal(t, "/login", ta.Screen())
}

func TestVerifiedGreetsOnNextLogin(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, ta.Verified(ctx))
	ta.reportAuth(ctx, ta.svc.Auth.Login(ctx, "tess@example.com", "secret"))
	assert.Contains(t, ta.out.String(), "Your email is verified")

	ta.out.Reset()
	ta.reportAuth(ctx, ta.svc.Auth.Login(ctx, "tess@example.com", "secret"))
	assert.NotContains(t, ta.out.String(), "verified")
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := &App{logger: logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))}
	ctx := context.Background()

	app.setMode(ctx, ModeOnline)
	assert.Equal(t, ModeOnline, app.mode())
	assert.Contains(t, buf.String(), "connectivity changed")

	buf.Reset()
	app.setMode(ctx, ModeOnline)
	assert.Empty(t, buf.String())

	app.setMode(ctx, ModeOffline)
	assert.Equal(t, ModeOffline, app.mode())
	assert.Contains(t, buf.String(), "mode=offline")
}

func TestCheckOnline(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	ta.checkOnline(ctx)
	assert.Equal(t, ModeOnline, ta.mode())

	ta.srv.Fail("", "/api/auth/token-check", fakeapi.DropConnection)
	ta.checkOnline(ctx)
	assert.Equal(t, ModeOffline, ta.mode())
}

func TestCommandsNeedSelection(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()
	ta.login(t)

	assert.ErrorIs(t, ta.Rooms(ctx), errNoProperty)
	ta.selectProperty(ta.prop.ID)
	assert.ErrorIs(t, ta.IssueNote(ctx), errNoRoom)
	assert.ErrorIs(t, ta.Capture(ctx, nil), errUsage("capture <file> [move-out]"))
}

func TestWalkthroughToSharedReport(t *testing.T) {
	input := strings.Join([]string{
		"kitchen", "", // room add: type, default name
		"Scratch on the floor", "", // issue note
		"", // send: default title
	}, "\n") + "\n"
	ta := newTestApp(t, input)
	ctx := context.Background()
	ta.login(t)

	require.NoError(t, ta.UseProperty(ctx, []string{string(ta.prop.ID)}))
	assert.Contains(t, ta.out.String(), "suggested rooms")

	require.NoError(t, ta.AddRoom(ctx, nil))
	require.Len(t, ta.srv.Rooms(ta.prop.ID), 1)
	assert.Equal(t, "Kitchen", ta.srv.Rooms(ta.prop.ID)[0].RoomName)

	require.NoError(t, ta.IssueNote(ctx))

	img := filepath.Join(t.TempDir(), "floor.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nfake image"), 0o600))
	require.NoError(t, ta.Capture(ctx, []string{img}))
	require.NoError(t, ta.Upload(ctx, nil))
	assert.Len(t, ta.srv.Uploads(), 1)

	ta.out.Reset()
	require.NoError(t, ta.Progress(ctx))
	assert.Contains(t, ta.out.String(), "Move-in: 1/1 rooms documented")
	assert.Contains(t, ta.out.String(), "Move-out: 0/1 rooms documented")
	assert.NotContains(t, ta.out.String(), "Walkthrough complete")

	// move-in evidence alone does not allow a send
	err := ta.Send(ctx, nil)
	require.ErrorIs(t, err, common.ErrWalkthroughOpen)
	assert.Contains(t, err.Error(), "Kitchen")
	assert.Zero(t, ta.srv.Calls(http.MethodPost, "/api/reports"))

	require.NoError(t, ta.Capture(ctx, []string{img, "move-out"}))
	require.NoError(t, ta.Upload(ctx, []string{"move-out"}))
	assert.Len(t, ta.srv.Uploads(), 2)

	ta.out.Reset()
	require.NoError(t, ta.Progress(ctx))
	assert.Contains(t, ta.out.String(), "Move-out: 1/1 rooms documented")
	assert.Contains(t, ta.out.String(), "Walkthrough complete, ready to send")

	ta.out.Reset()
	require.NoError(t, ta.Send(ctx, nil))
	reports := ta.srv.Reports()
	require.Len(t, reports, 1)
	sent := reports[0]
	assert.Equal(t, "Move-out report - 1 Main St", sent.Title)
	assert.Contains(t, ta.out.String(), "http://localhost:3000/reports/shared/"+sent.UUID)
	assert.Equal(t, "/reports/share-success", ta.Screen())
	assert.Len(t, ta.srv.Notifications(), 1)

	// shown once
	ta.out.Reset()
	require.NoError(t, ta.ShareSuccess(ctx))
	assert.Contains(t, ta.out.String(), "No report was sent recently")

	// the landlord opens the link without a session
	require.NoError(t, ta.Logout(ctx))
	ta.out.Reset()
	require.NoError(t, ta.Shared(ctx, []string{sent.UUID, "approve"}))
	assert.Contains(t, ta.out.String(), "Report approved")
	got, ok := ta.srv.Report(sent.ID)
	require.True(t, ok)
	assert.Equal(t, models.ApprovalApproved, got.ApprovalStatus)
}

func TestSend_RefusesIncompleteWalkthrough(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()
	ta.login(t)
	pid := ta.prop.ID

	_, err := ta.svc.Drafts.SaveRoom(ctx, pid, models.Room{RoomID: "r1", RoomName: "Kitchen", RoomType: models.RoomTypeKitchen, MoveOutNotes: []string{"clean"}})
	require.NoError(t, err)
	_, err = ta.svc.Drafts.SaveRoom(ctx, pid, models.Room{RoomID: "r2", RoomName: "Bathroom", RoomType: models.RoomTypeBathroom, PhotoCount: 4})
	require.NoError(t, err)
	ta.selectProperty(pid)

	err = ta.Send(ctx, nil)
	require.ErrorIs(t, err, common.ErrWalkthroughOpen)
	assert.Contains(t, err.Error(), "Bathroom")
	assert.NotContains(t, err.Error(), "Kitchen")
	assert.Zero(t, ta.srv.Calls(http.MethodPost, "/api/reports"))
	assert.Empty(t, ta.srv.Reports())
}

func TestSend_RejectsUnknownReportType(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()
	ta.login(t)
	ta.selectProperty(ta.prop.ID)

	err := ta.Send(ctx, []string{"holiday"})
	assert.Equal(t, errUsage("send [move-in|move-out|general]"), err)
	assert.Zero(t, ta.srv.Calls(http.MethodPost, "/api/reports"))
}

func TestSharedUnknownShowsPlaceholder(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.Shared(context.Background(), []string{"no-such-uuid", "approve"}))
	assert.Contains(t, ta.out.String(), "Report unavailable")
	assert.NotContains(t, ta.out.String(), "Report approved")
}
