package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeApprovalStatus(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want ApprovalStatus
	}{
		{"nil", nil, ApprovalPending},
		{"empty", "", ApprovalPending},
		{"approved", "approved", ApprovalApproved},
		{"rejected", "rejected", ApprovalRejected},
		{"pending", "pending", ApprovalPending},
		{"number", 123, ApprovalPending},
		{"float from json", float64(123), ApprovalPending},
		{"wrong case", "Approved", ApprovalPending},
		{"typed", ApprovalRejected, ApprovalRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeApprovalStatus(tt.in))
		})
	}
}

func TestReport_UnmarshalNormalizesApprovalStatus(t *testing.T) {
	cases := map[string]ApprovalStatus{
		`{}`:                             ApprovalPending,
		`{"approval_status":null}`:       ApprovalPending,
		`{"approval_status":""}`:         ApprovalPending,
		`{"approval_status":"approved"}`: ApprovalApproved,
		`{"approval_status":"rejected"}`: ApprovalRejected,
		`{"approval_status":"pending"}`:  ApprovalPending,
		`{"approval_status":123}`:        ApprovalPending,
		`{"approval_status":{"x":1}}`:    ApprovalPending,
	}
	for in, want := range cases {
		var r Report
		require.NoError(t, json.Unmarshal([]byte(in), &r), in)
		assert.Equal(t, want, r.ApprovalStatus, in)
	}
}

func TestReport_MarshalPendingAsNull(t *testing.T) {
	b, err := json.Marshal(Report{UUID: "u"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"approval_status":null`)
}

func TestReport_Affordances(t *testing.T) {
	tests := []struct {
		name     string
		report   Report
		want     Affordances
		readOnly bool
	}{
		{"pending", Report{}, Affordances{Edit: true, Delete: true}, false},
		{"approved", Report{ApprovalStatus: ApprovalApproved}, Affordances{}, true},
		{"rejected", Report{ApprovalStatus: ApprovalRejected}, Affordances{Edit: true, Delete: true, Archive: true}, false},
		{"rejected archived", Report{ApprovalStatus: ApprovalRejected, IsArchived: true}, Affordances{}, true},
		{"placeholder", PlaceholderReport("x"), Affordances{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Affordances())
			assert.Equal(t, tt.readOnly, tt.report.IsReadOnly())
		})
	}
}

func TestPlaceholderReport(t *testing.T) {
	r := PlaceholderReport("5b0c")
	assert.True(t, r.Dummy)
	assert.True(t, r.Error)
	assert.Equal(t, "5b0c", r.UUID)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"dummy":true`)
}

func TestSnapshotRoom(t *testing.T) {
	r := Room{
		RoomID: "r1", RoomName: "Kitchen", RoomType: RoomTypeKitchen,
		PhotoCount: 2, MoveOutPhotoCount: 1, MoveOutNotes: []string{"clean"},
		MoveOutDate: "2026-10-01T10:00:00Z",
	}
	s := SnapshotRoom(r)
	assert.Equal(t, "Kitchen", s.Name)
	assert.Equal(t, []string{"clean"}, s.Notes)
	assert.Equal(t, 1, s.MoveOutPhotoCount)

	r.MoveOutNotes[0] = "changed"
	assert.Equal(t, "clean", s.Notes[0], "snapshot owns its notes")
}

func TestReportType_Valid(t *testing.T) {
	for _, rt := range []ReportType{ReportTypeMoveIn, ReportTypeMoveOut, ReportTypeGeneral} {
		assert.True(t, rt.Valid(), rt)
	}
	for _, rt := range []ReportType{"", "holiday", "Move-Out"} {
		assert.False(t, rt.Valid(), rt)
	}
}
