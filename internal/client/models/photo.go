package models

import (
	"encoding/json"
	"slices"
	"time"
)

// Photo is an uploaded, server-stored image.
type Photo struct {
	ID         ID       `json:"id"`
	URL        string   `json:"url"`
	Note       string   `json:"note,omitempty"`
	Tags       []string `json:"tags"`
	Timestamp  string   `json:"timestamp,omitempty"`
	RoomID     ID       `json:"room_id"`
	PropertyID ID       `json:"property_id"`
	ReportID   ID       `json:"report_id,omitempty"`
	MoveOut    bool     `json:"move_out"`
}

// UnmarshalJSON accepts the older "src" key as an alias of "url".
func (p *Photo) UnmarshalJSON(b []byte) error {
	type plain Photo
	aux := struct {
		*plain
		Src string `json:"src"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if p.URL == "" {
		p.URL = aux.Src
	}
	return nil
}

func (p Photo) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadCompleted UploadStatus = "completed"
	UploadFailed    UploadStatus = "failed"
)

// StagedPhoto is a captured image kept locally until it is uploaded. The
// PreviewURL is usable right after capture, before any network call.
type StagedPhoto struct {
	ID           string
	PropertyID   ID
	RoomID       ID
	BlobKey      string
	PreviewURL   string
	ContentType  string
	FileName     string
	Note         string
	MoveOut      bool
	UploadStatus UploadStatus
	RemoteID     ID
	CreatedAt    time.Time
}

// RoomRef names the room a photo is attached to when it is associated with
// a report.
type RoomRef struct {
	RoomID   ID     `json:"room_id"`
	RoomName string `json:"room_name"`
}
