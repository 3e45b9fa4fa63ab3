package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumbersAndStrings(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":17,"b":"abc","c":null}`), &v))
	assert.Equal(t, ID("17"), v.A)
	assert.Equal(t, ID("abc"), v.B)
	assert.Equal(t, ID(""), v.C)

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestPhoto_SrcAlias(t *testing.T) {
	var p Photo
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"src":"/uploads/a.jpg","tags":["crack"]}`), &p))
	assert.Equal(t, "/uploads/a.jpg", p.URL)
	assert.True(t, p.HasTag("crack"))
	assert.False(t, p.HasTag("stain"))

	require.NoError(t, json.Unmarshal([]byte(`{"url":"/u/b.jpg","src":"/u/old.jpg"}`), &p))
	assert.Equal(t, "/u/b.jpg", p.URL, "url wins over src")
}

func TestProperty_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Property
		wantErr bool
	}{
		{"ok", Property{Address: "1 Main St", PropertyType: "apartment"}, false},
		{"no address", Property{PropertyType: "apartment"}, true},
		{"blank address", Property{Address: "  ", PropertyType: "house"}, true},
		{"no type", Property{Address: "1 Main St"}, true},
		{"bad landlord email", Property{Address: "1 Main St", PropertyType: "house", LandlordEmail: "nope"}, true},
		{"negative deposit", Property{Address: "1 Main St", PropertyType: "house", DepositAmount: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProperty_ValidateDefaultsLeaseDurationType(t *testing.T) {
	p := Property{Address: "1 Main St", PropertyType: "house"}
	require.NoError(t, p.Validate())
	assert.Equal(t, "months", p.LeaseDurationType)
}
