// Package models defines the client-side data model of depositkeeper:
// users, properties, rooms, photos and reports, together with the small
// pure rules that belong to them (room merge and reconciliation, documented
// predicates, approval status normalization, report affordances).
//
// JSON tags follow the backend's wire format: rooms use camelCase keys,
// everything else snake_case.
package models
