// Package common contains shared constants and sentinel errors used across
// depositkeeper components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// Storage keys of the local key/value store. The names match the ones the
// browser client kept in localStorage so exported data stays recognizable.
const (
	KeyToken = "token"
	KeyTheme = "theme"

	KeyReportShareSuccess   = "report_share_success"
	KeyReportShareURL       = "report_share_url"
	KeyReportUUID           = "report_uuid"
	KeyLastSharedPropertyID = "lastSharedPropertyId"
	KeyNewlyVerified        = "newlyVerified"
)

// PropertyRoomsKey returns the key holding the ordered room list of a property.
func PropertyRoomsKey(propertyID string) string {
	return "property_" + propertyID + "_rooms"
}

// RoomKeyPrefix returns the prefix shared by all per-room cache keys.
func RoomKeyPrefix(propertyID, roomID string) string {
	return "property_" + propertyID + "_room_" + roomID + "_"
}
