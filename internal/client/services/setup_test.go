package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/blobstore"
	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/storage"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
	"github.com/dmitrijs2005/depositkeeper/internal/testutil/fakeapi"
	"github.com/stretchr/testify/require"
)

type navSpy struct {
	mu    sync.Mutex
	paths []string
}

func (n *navSpy) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navSpy) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// testEnv wires services against the fake backend, a SQLite cache in a temp
// dir and a local blob store.
type testEnv struct {
	srv   *fakeapi.Server
	api   *client.HTTPClient
	repos *storage.Repositories
	blobs *blobstore.LocalStore
	nav   *navSpy
	user  models.User
	prop  models.Property
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	srv := fakeapi.New(t)
	user := srv.AddUser("Tess Tenant", "tess@example.com", "secret")
	prop := srv.AddProperty(models.Property{
		Address:       "1 Main St",
		PropertyType:  "apartment",
		LandlordName:  "Larry Landlord",
		LandlordEmail: "larry@example.com",
	})
	token := srv.IssueToken(user, time.Now().Add(time.Hour))

	db, err := storage.InitDatabase(ctx, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	blobs, err := blobstore.NewLocalStore(filepath.Join(t.TempDir(), "photos"))
	require.NoError(t, err)

	return &testEnv{
		srv:   srv,
		api:   client.NewHTTPClient(srv.URL, client.NewCredentials(token), client.WithPublicTimeout(time.Second)),
		repos: storage.NewRepositories(db),
		blobs: blobs,
		nav:   &navSpy{},
		user:  user,
		prop:  prop,
	}
}

func (e *testEnv) drafts() DraftCache {
	return NewDraftCache(e.api, e.repos.Rooms, e.repos, e.blobs, logging.Discard())
}

func (e *testEnv) walkthrough() WalkthroughService {
	return NewWalkthroughService(e.drafts(), e.api, e.repos.Metadata, e.nav, logging.Discard())
}

func (e *testEnv) photos() PhotoService {
	return NewPhotoService(e.api, e.repos.Photos, e.blobs, logging.Discard())
}

func (e *testEnv) assembler() ReportAssembler {
	return NewReportAssembler(e.api, e.api, e.photos(), e.repos.Metadata, e.nav, logging.Discard(), "https://app.example.com/")
}

func room(id, name string, t models.RoomType) models.Room {
	return models.Room{
		RoomID:         models.ID(id),
		RoomName:       name,
		RoomType:       t,
		RoomIssueNotes: []string{},
		MoveOutNotes:   []string{},
	}
}
