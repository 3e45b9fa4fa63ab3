package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/common"
)

type RoomType string

const (
	RoomTypeLiving   RoomType = "living"
	RoomTypeBedroom  RoomType = "bedroom"
	RoomTypeKitchen  RoomType = "kitchen"
	RoomTypeBathroom RoomType = "bathroom"
	RoomTypeOther    RoomType = "other"
)

// ParseRoomType maps free input onto a known room type; anything unknown
// becomes RoomTypeOther.
func ParseRoomType(s string) RoomType {
	switch t := RoomType(s); t {
	case RoomTypeLiving, RoomTypeBedroom, RoomTypeKitchen, RoomTypeBathroom:
		return t
	default:
		return RoomTypeOther
	}
}

// DefaultName is the name a freshly configured room of this type gets.
func (t RoomType) DefaultName() string {
	switch t {
	case RoomTypeLiving:
		return "Living Room"
	case RoomTypeBedroom:
		return "Bedroom"
	case RoomTypeKitchen:
		return "Kitchen"
	case RoomTypeBathroom:
		return "Bathroom"
	default:
		return "Room"
	}
}

// RoomQuality is the move-in condition verdict. The zero value means null.
type RoomQuality string

const (
	RoomQualityGood      RoomQuality = "good"
	RoomQualityAttention RoomQuality = "attention"
)

func (q RoomQuality) MarshalJSON() ([]byte, error) {
	if q == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(q))
}

func (q *RoomQuality) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil || s == nil {
		*q = ""
		return nil
	}
	switch v := RoomQuality(*s); v {
	case RoomQualityGood, RoomQualityAttention:
		*q = v
	default:
		*q = ""
	}
	return nil
}

type Room struct {
	RoomID            ID          `json:"roomId"`
	RoomName          string      `json:"roomName"`
	RoomType          RoomType    `json:"roomType"`
	PhotoCount        int         `json:"photoCount"`
	RoomQuality       RoomQuality `json:"roomQuality"`
	RoomIssueNotes    []string    `json:"roomIssueNotes"`
	MoveOutNotes      []string    `json:"moveOutNotes"`
	MoveOutPhotoCount int         `json:"moveOutPhotoCount"`
	MoveOutDate       string      `json:"moveOutDate,omitempty"`
}

// MoveInDocumented reports whether the move-in pass recorded anything for
// the room.
func (r Room) MoveInDocumented() bool {
	return r.PhotoCount > 0 || len(r.RoomIssueNotes) > 0
}

// MoveOutDocumented reports whether the move-out pass recorded anything for
// the room.
func (r Room) MoveOutDocumented() bool {
	return r.MoveOutPhotoCount > 0 || len(r.MoveOutNotes) > 0
}

// NewRoomID mints a client-side room id of the form room_<millis>_<random>.
func NewRoomID(now time.Time) (ID, error) {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", fmt.Errorf("room id: %w", err)
	}
	return ID(fmt.Sprintf("room_%d_%s", now.UnixMilli(), suffix)), nil
}

// UpsertRoom merges room into rooms by RoomID: an existing room is replaced
// in place, a new one is appended. The input slice is not modified.
func UpsertRoom(rooms []Room, room Room) []Room {
	out := make([]Room, len(rooms), len(rooms)+1)
	copy(out, rooms)
	for i := range out {
		if out[i].RoomID == room.RoomID {
			out[i] = room
			return out
		}
	}
	return append(out, room)
}

// RemoveRoom drops the room with id from rooms, keeping order.
func RemoveRoom(rooms []Room, id ID) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if r.RoomID != id {
			out = append(out, r)
		}
	}
	return out
}

// FindRoom returns the room with id, if present.
func FindRoom(rooms []Room, id ID) (Room, bool) {
	for _, r := range rooms {
		if r.RoomID == id {
			return r, true
		}
	}
	return Room{}, false
}

// ReconcileRooms merges a server room list with the local draft list. Rooms
// known to the server win; rooms that exist only locally are kept after
// them in their local order.
func ReconcileRooms(server, local []Room) []Room {
	out := make([]Room, 0, len(server)+len(local))
	seen := make(map[ID]struct{}, len(server))
	for _, r := range server {
		out = append(out, r)
		seen[r.RoomID] = struct{}{}
	}
	for _, r := range local {
		if _, ok := seen[r.RoomID]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// OverlayRooms lays local over server: rooms in both take the local
// version at the server's position, server-only rooms stay and local-only
// rooms follow in local order.
func OverlayRooms(server, local []Room) []Room {
	out := ReconcileRooms(server, local)
	for _, r := range local {
		out = UpsertRoom(out, r)
	}
	return out
}

// DefaultRooms returns the placeholder rooms shown when neither the server
// nor the local cache knows any room of a property.
func DefaultRooms(now time.Time) ([]Room, error) {
	types := []RoomType{RoomTypeLiving, RoomTypeBedroom, RoomTypeKitchen, RoomTypeBathroom}
	rooms := make([]Room, 0, len(types))
	for i, t := range types {
		id, err := NewRoomID(now.Add(time.Duration(i) * time.Millisecond))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, Room{
			RoomID:         id,
			RoomName:       t.DefaultName(),
			RoomType:       t,
			RoomIssueNotes: []string{},
			MoveOutNotes:   []string{},
		})
	}
	return rooms, nil
}
