package fakeapi

import (
	"io"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/gorilla/mux"
)

// AddUser registers a verified account and returns its user.
func (s *Server) AddUser(name, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: s.newID(), Name: name, Email: email}
	s.accounts[strings.ToLower(email)] = &account{user: u, password: password, verified: true}
	return u
}

func (s *Server) AddProperty(p models.Property) models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.properties[p.ID] = p
	return p
}

func (s *Server) SetRooms(propertyID models.ID, rooms []models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[propertyID] = slices.Clone(rooms)
}

func (s *Server) Rooms(propertyID models.ID) []models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rooms[propertyID])
}

func (s *Server) AddReport(r models.Report) models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.newID()
	}
	s.reports[r.ID] = r
	return r
}

func (s *Server) Report(id models.ID) (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	return r, ok
}

func (s *Server) Reports() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedReports(func(models.Report) bool { return true })
}

func (s *Server) AddPhoto(p models.Photo) models.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	s.photos[p.ID] = p
	return p
}

func (s *Server) Photo(id models.ID) (models.Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	return p, ok
}

// auth

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !acc.verified {
		writeError(w, http.StatusForbidden, "Email not verified")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.IssueToken(acc.user, time.Now().Add(s.TokenTTL)),
		"user":  acc.user,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[strings.ToLower(req.Email)]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	u := models.User{ID: s.newID(), Name: req.Name, Email: req.Email}
	acc := &account{user: u, password: req.Password, verified: !s.RequireVerification}
	s.accounts[strings.ToLower(req.Email)] = acc
	s.mu.Unlock()

	if !acc.verified {
		writeJSON(w, http.StatusCreated, map[string]any{
			"needsVerification": true,
			"userId":            u.ID,
			"message":           "Check your email to verify your account",
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": s.IssueToken(u, time.Now().Add(s.TokenTTL)),
		"user":  u,
	})
}

func (s *Server) tokenCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userFromRequest(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	u, _ := s.userFromRequest(r)
	writeJSON(w, http.StatusOK, u)
}

// properties

func (s *Server) listProperties(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createProperty(w http.ResponseWriter, r *http.Request) {
	var p models.Property
	if err := decode(r, &p); err != nil || p.Address == "" {
		writeError(w, http.StatusBadRequest, "Address is required")
		return
	}
	s.mu.Lock()
	p.ID = s.newID()
	s.properties[p.ID] = p
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	p, ok := s.properties[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProperty(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	var p models.Property
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[id]; !ok {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	p.ID = id
	s.properties[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[id]; !ok {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	delete(s.properties, id)
	delete(s.rooms, id)
	for rid, rep := range s.reports {
		if rep.PropertyID == id {
			delete(s.reports, rid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getRooms(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	rooms := slices.Clone(s.rooms[id])
	s.mu.Unlock()
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *Server) putRooms(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	var req struct {
		Rooms []models.Room `json:"rooms"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	s.mu.Lock()
	s.rooms[id] = slices.Clone(req.Rooms)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"rooms": req.Rooms})
}

// reports

func (s *Server) listReports(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedReports(func(models.Report) bool { return true }))
}

func (s *Server) listPropertyReports(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedReports(func(rep models.Report) bool { return rep.PropertyID == id }))
}

func (s *Server) sortedReports(keep func(models.Report) bool) []models.Report {
	out := []models.Report{}
	for _, rep := range s.reports {
		if keep(rep) {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	var rep models.Report
	if err := decode(r, &rep); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	s.mu.Lock()
	rep.ID = s.newID()
	switch s.ReportUUID {
	case UUIDServer:
		rep.UUID = newUUID()
	case UUIDNone:
		rep.UUID = ""
	}
	rep.ApprovalStatus = models.ApprovalPending
	rep.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.reports[rep.ID] = rep
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) reportByUUID(w http.ResponseWriter, r *http.Request) {
	u := mux.Vars(r)["uuid"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rep := range s.reports {
		if rep.UUID == u {
			writeJSON(w, http.StatusOK, rep)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Report not found")
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	rep, ok := s.reports[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) updateReport(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	var in models.Report
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	if rep.ApprovalStatus == models.ApprovalApproved {
		writeError(w, http.StatusConflict, "Approved reports cannot be edited")
		return
	}
	rep.Title = in.Title
	rep.TenantName = in.TenantName
	rep.TenantEmail = in.TenantEmail
	rep.LandlordName = in.LandlordName
	rep.LandlordEmail = in.LandlordEmail
	if in.Rooms != nil {
		rep.Rooms = in.Rooms
	}
	s.reports[id] = rep
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	delete(s.reports, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) archiveReport(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	rep.IsArchived = true
	s.reports[id] = rep
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) decide(status models.ApprovalStatus, public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := models.ID(mux.Vars(r)["id"])
		var req struct {
			UUID             string `json:"uuid"`
			RejectionMessage string `json:"rejection_message"`
		}
		if r.ContentLength != 0 {
			if err := decode(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "bad request")
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		rep, ok := s.reports[id]
		if !ok {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		if public && rep.UUID != req.UUID {
			writeError(w, http.StatusForbidden, "Invalid share link")
			return
		}
		rep.ApprovalStatus = status
		rep.RejectionMessage = ""
		if status == models.ApprovalRejected {
			rep.RejectionMessage = req.RejectionMessage
		}
		s.reports[id] = rep
		writeJSON(w, http.StatusOK, rep)
	}
}

func (s *Server) notify(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := models.ID(mux.Vars(r)["id"])
		req := map[string]string{}
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.reports[id]; !ok {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		s.notifications = append(s.notifications, Notification{ReportID: id, Public: public, Request: req})
		writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
	}
}

// photos

func (s *Server) filterPhotos(keep func(models.Photo) bool) []models.Photo {
	out := []models.Photo{}
	for _, p := range s.photos {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out
}

func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) {
	pid := models.ID(r.URL.Query().Get("property_id"))
	rid := models.ID(r.URL.Query().Get("room_id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.filterPhotos(func(p models.Photo) bool {
		return (pid == "" || p.PropertyID == pid) && (rid == "" || p.RoomID == rid)
	}))
}

func (s *Server) reportPhotos(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.filterPhotos(func(p models.Photo) bool { return p.ReportID == id }))
}

func (s *Server) publicPhotos(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	rid := models.ID(r.URL.Query().Get("room_id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.filterPhotos(func(p models.Photo) bool {
		return (p.ReportID == id || p.PropertyID == id) && (rid == "" || p.RoomID == rid)
	}))
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	pid := models.ID(mux.Vars(r)["id"])
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	f, hdr, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable photo")
		return
	}
	moveOut, _ := strconv.ParseBool(r.FormValue("move_out"))

	s.mu.Lock()
	up := Upload{
		PropertyID: pid,
		RoomID:     models.ID(r.FormValue("room_id")),
		Note:       r.FormValue("note"),
		MoveOut:    moveOut,
		FileName:   hdr.Filename,
		Content:    content,
	}
	s.uploads = append(s.uploads, up)
	p := models.Photo{
		ID:         s.newID(),
		Note:       up.Note,
		Tags:       []string{},
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		RoomID:     up.RoomID,
		PropertyID: pid,
		MoveOut:    moveOut,
	}
	p.URL = "/uploads/" + p.ID.String() + "-" + hdr.Filename
	s.photos[p.ID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) withPhoto(w http.ResponseWriter, r *http.Request, fn func(p *models.Photo)) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}
	fn(&p)
	s.photos[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getPhoto(w http.ResponseWriter, r *http.Request) {
	s.withPhoto(w, r, func(*models.Photo) {})
}

func (s *Server) deletePhoto(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[id]; !ok {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}
	delete(s.photos, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) associatePhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReportID models.ID `json:"report_id"`
		RoomID   models.ID `json:"room_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	s.withPhoto(w, r, func(p *models.Photo) {
		p.ReportID = req.ReportID
		if req.RoomID != "" {
			p.RoomID = req.RoomID
		}
	})
}

func (s *Server) photoNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	s.withPhoto(w, r, func(p *models.Photo) { p.Note = req.Note })
}

func (s *Server) addTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := decode(r, &req); err != nil || req.Tag == "" {
		writeError(w, http.StatusBadRequest, "tag is required")
		return
	}
	s.withPhoto(w, r, func(p *models.Photo) {
		if !slices.Contains(p.Tags, req.Tag) {
			p.Tags = append(p.Tags, req.Tag)
		}
	})
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	s.withPhoto(w, r, func(p *models.Photo) {
		p.Tags = slices.DeleteFunc(p.Tags, func(t string) bool { return t == tag })
	})
}

// idLess orders numeric ids numerically and everything else lexically.
func idLess(a, b models.ID) bool {
	ai, errA := strconv.Atoi(a.String())
	bi, errB := strconv.Atoi(b.String())
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}
