package models

import "encoding/json"

type ReportType string

const (
	ReportTypeMoveIn  ReportType = "move-in"
	ReportTypeMoveOut ReportType = "move-out"
	ReportTypeGeneral ReportType = "general"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeMoveIn, ReportTypeMoveOut, ReportTypeGeneral:
		return true
	}
	return false
}

// ApprovalStatus is the landlord's verdict on a report. The zero value is
// null (pending).
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = ""
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// NormalizeApprovalStatus coerces any decoded value to one of null,
// "approved" or "rejected". Everything else, including unknown strings,
// numbers and the empty string, becomes null.
func NormalizeApprovalStatus(v any) ApprovalStatus {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case ApprovalStatus:
		s = string(t)
	default:
		return ApprovalPending
	}
	switch ApprovalStatus(s) {
	case ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s)
	default:
		return ApprovalPending
	}
}

func (s ApprovalStatus) MarshalJSON() ([]byte, error) {
	if s == ApprovalPending {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON never fails: whatever the backend sends is normalized.
func (s *ApprovalStatus) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*s = ApprovalPending
		return nil
	}
	*s = NormalizeApprovalStatus(v)
	return nil
}

// RoomSnapshot is the denormalized copy of a room stored inside a report.
type RoomSnapshot struct {
	RoomID            ID       `json:"roomId"`
	Name              string   `json:"name"`
	Type              RoomType `json:"type"`
	Notes             []string `json:"notes"`
	IssueNotes        []string `json:"issue_notes,omitempty"`
	PhotoCount        int      `json:"photo_count"`
	MoveOutPhotoCount int      `json:"move_out_photo_count"`
	MoveOutDate       string   `json:"move_out_date,omitempty"`
}

// SnapshotRoom copies the reportable fields of r.
func SnapshotRoom(r Room) RoomSnapshot {
	return RoomSnapshot{
		RoomID:            r.RoomID,
		Name:              r.RoomName,
		Type:              r.RoomType,
		Notes:             append([]string{}, r.MoveOutNotes...),
		IssueNotes:        append([]string(nil), r.RoomIssueNotes...),
		PhotoCount:        r.PhotoCount,
		MoveOutPhotoCount: r.MoveOutPhotoCount,
		MoveOutDate:       r.MoveOutDate,
	}
}

type Report struct {
	ID               ID             `json:"id,omitempty"`
	UUID             string         `json:"uuid"`
	Title            string         `json:"title"`
	Type             ReportType     `json:"type"`
	PropertyID       ID             `json:"property_id"`
	Address          string         `json:"address"`
	TenantName       string         `json:"tenant_name"`
	TenantEmail      string         `json:"tenant_email"`
	LandlordName     string         `json:"landlord_name"`
	LandlordEmail    string         `json:"landlord_email"`
	Rooms            []RoomSnapshot `json:"rooms"`
	CreatedAt        string         `json:"created_at,omitempty"`
	ApprovalStatus   ApprovalStatus `json:"approval_status"`
	RejectionMessage string         `json:"rejection_message,omitempty"`
	IsArchived       bool           `json:"is_archived"`

	// Dummy and Error mark a placeholder produced when a public read failed.
	Dummy bool `json:"dummy,omitempty"`
	Error bool `json:"error,omitempty"`
}

// PlaceholderReport stands in for a shared report that could not be loaded.
func PlaceholderReport(uuid string) Report {
	return Report{
		UUID:  uuid,
		Title: "Report unavailable",
		Rooms: []RoomSnapshot{},
		Dummy: true,
		Error: true,
	}
}

// Affordances lists the owner actions offered for a report.
type Affordances struct {
	Edit    bool
	Delete  bool
	Archive bool
}

// Affordances derives the allowed owner actions from the approval state.
// Approved and archived reports are read-only; rejected ones can be edited,
// deleted or archived; pending ones can be edited or deleted.
func (r Report) Affordances() Affordances {
	switch {
	case r.Dummy, r.IsArchived, r.ApprovalStatus == ApprovalApproved:
		return Affordances{}
	case r.ApprovalStatus == ApprovalRejected:
		return Affordances{Edit: true, Delete: true, Archive: true}
	default:
		return Affordances{Edit: true, Delete: true}
	}
}

// IsReadOnly reports whether the owner may no longer change the report.
func (r Report) IsReadOnly() bool {
	a := r.Affordances()
	return !a.Edit && !a.Delete && !a.Archive
}
