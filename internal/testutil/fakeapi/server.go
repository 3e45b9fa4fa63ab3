// Package fakeapi is an in-memory stand-in for the depositkeeper REST
// backend, served by httptest and routed with gorilla/mux. Tests use it to
// drive the real HTTP gateway end to end, inject failures per route and
// inspect what the client sent.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DropConnection as an injected status closes the connection without an
// answer, which the client sees as a transport failure.
const DropConnection = -1

// UUIDMode controls the uuid returned by report creation.
type UUIDMode int

const (
	// UUIDServer mints a fresh server-side uuid.
	UUIDServer UUIDMode = iota
	// UUIDEcho returns the candidate the client sent.
	UUIDEcho
	// UUIDNone leaves uuid out of the answer.
	UUIDNone
)

type Call struct {
	Method string
	Route  string
	URL    string
}

type Upload struct {
	PropertyID models.ID
	RoomID     models.ID
	Note       string
	MoveOut    bool
	FileName   string
	Content    []byte
}

type Notification struct {
	ReportID models.ID
	Public   bool
	Request  map[string]string
}

type account struct {
	user     models.User
	password string
	verified bool
}

type Server struct {
	*httptest.Server

	// ReportUUID selects how report creation answers the uuid field.
	ReportUUID UUIDMode
	// RequireVerification makes register answer needsVerification.
	RequireVerification bool
	TokenTTL            time.Duration

	secret []byte

	mu         sync.Mutex
	nextID     int
	accounts   map[string]*account
	properties map[models.ID]models.Property
	rooms      map[models.ID][]models.Room
	reports    map[models.ID]models.Report
	photos     map[models.ID]models.Photo

	calls         []Call
	failures      map[string]int
	delay         time.Duration
	uploads       []Upload
	notifications []Notification
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		TokenTTL:   time.Hour,
		secret:     []byte("fakeapi-secret"),
		accounts:   make(map[string]*account),
		properties: make(map[models.ID]models.Property),
		rooms:      make(map[models.ID][]models.Room),
		reports:    make(map[models.ID]models.Report),
		photos:     make(map[models.ID]models.Photo),
		failures:   make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.record, s.inject)

	r.HandleFunc("/api/auth/login", s.login).Methods("POST")
	r.HandleFunc("/api/auth/register", s.register).Methods("POST")
	r.HandleFunc("/api/auth/token-check", s.tokenCheck).Methods("GET")
	r.HandleFunc("/api/auth/user", s.authed(s.currentUser)).Methods("GET")

	r.HandleFunc("/api/properties", s.authed(s.listProperties)).Methods("GET")
	r.HandleFunc("/api/properties", s.authed(s.createProperty)).Methods("POST")
	r.HandleFunc("/api/properties/{id}", s.authed(s.getProperty)).Methods("GET")
	r.HandleFunc("/api/properties/{id}", s.authed(s.updateProperty)).Methods("PUT")
	r.HandleFunc("/api/properties/{id}", s.authed(s.deleteProperty)).Methods("DELETE")
	r.HandleFunc("/api/properties/{id}/rooms", s.authed(s.getRooms)).Methods("GET")
	r.HandleFunc("/api/properties/{id}/rooms", s.authed(s.putRooms)).Methods("PUT")

	r.HandleFunc("/api/reports", s.authed(s.listReports)).Methods("GET")
	r.HandleFunc("/api/reports", s.authed(s.createReport)).Methods("POST")
	r.HandleFunc("/api/reports/property/{id}", s.authed(s.listPropertyReports)).Methods("GET")
	r.HandleFunc("/api/reports/uuid/{uuid}", s.reportByUUID).Methods("GET")
	r.HandleFunc("/api/reports/{id}", s.authed(s.getReport)).Methods("GET")
	r.HandleFunc("/api/reports/{id}", s.authed(s.updateReport)).Methods("PUT")
	r.HandleFunc("/api/reports/{id}", s.authed(s.deleteReport)).Methods("DELETE")
	r.HandleFunc("/api/reports/{id}/archive", s.authed(s.archiveReport)).Methods("PUT")
	r.HandleFunc("/api/reports/{id}/approve", s.authed(s.decide(models.ApprovalApproved, false))).Methods("PUT")
	r.HandleFunc("/api/reports/{id}/reject", s.authed(s.decide(models.ApprovalRejected, false))).Methods("PUT")
	r.HandleFunc("/api/reports/{id}/public-approve", s.decide(models.ApprovalApproved, true)).Methods("PUT")
	r.HandleFunc("/api/reports/{id}/public-reject", s.decide(models.ApprovalRejected, true)).Methods("PUT")
	r.HandleFunc("/api/reports/{id}/notify", s.authed(s.notify(false))).Methods("POST")
	r.HandleFunc("/api/reports/{id}/public-notify", s.notify(true)).Methods("POST")

	r.HandleFunc("/api/photos", s.authed(s.listPhotos)).Methods("GET")
	r.HandleFunc("/api/photos/report/{id}", s.authed(s.reportPhotos)).Methods("GET")
	r.HandleFunc("/api/photos/public-report/{id}", s.publicPhotos).Methods("GET")
	r.HandleFunc("/api/photos/upload/{id}", s.authed(s.upload)).Methods("POST")
	r.HandleFunc("/api/photos/{id}", s.authed(s.getPhoto)).Methods("GET")
	r.HandleFunc("/api/photos/{id}", s.authed(s.deletePhoto)).Methods("DELETE")
	r.HandleFunc("/api/photos/{id}/report", s.authed(s.associatePhoto)).Methods("PUT")
	r.HandleFunc("/api/photos/{id}/note", s.authed(s.photoNote)).Methods("PUT")
	r.HandleFunc("/api/photos/{id}/tags", s.authed(s.addTag)).Methods("POST")
	r.HandleFunc("/api/photos/{id}/tags/{tag}", s.authed(s.removeTag)).Methods("DELETE")

	return r
}

// Fail makes every request to route (a mux path template such as
// "/api/reports/{id}") answer status, or drop the connection for
// DropConnection. method "" matches any method.
func (s *Server) Fail(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = status
}

// Heal removes all injected failures.
func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// SetDelay delays every answer, for timeout tests.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Calls counts recorded requests for method and route template.
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method && c.Route == route {
			n++
		}
	}
	return n
}

func (s *Server) AllCalls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.notifications...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Route: route, URL: r.URL.String()})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if cr := mux.CurrentRoute(r); cr != nil {
			route, _ = cr.GetPathTemplate()
		}

		s.mu.Lock()
		delay := s.delay
		status, ok := s.failures[r.Method+" "+route]
		if !ok {
			status, ok = s.failures[" "+route]
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if status == DropConnection {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
					return
				}
			}
		}
		writeError(w, status, fmt.Sprintf("injected failure %d", status))
	})
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.userFromRequest(r); !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		h(w, r)
	}
}

// IssueToken signs a token for user that expires at exp.
func (s *Server) IssueToken(user models.User, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"user": user,
		"exp":  exp.Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) userFromRequest(r *http.Request) (models.User, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return models.User{}, false
	}
	var claims struct {
		User models.User `json:"user"`
		jwt.RegisteredClaims
	}
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.User{}, false
	}
	return claims.User, true
}

func (s *Server) newID() models.ID {
	s.nextID++
	return models.ID(fmt.Sprint(s.nextID))
}

func newUUID() string {
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
