package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  1 Main St \n"), "Address?", &out)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got)
	assert.Equal(t, "Address?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double enter", "a\nb\n\n\n", "a\nb"},
		{"crlf", "a\r\nb\r\n\r\n", "a\nb"},
		{"immediate blank", "\n", ""},
		{"eof without blank line", "a\nb", "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tc.input), "Note", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetPassword(&out)
	assert.Error(t, err)
}

func TestGetPassword_Stubbed(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "secret", string(pw))
}

func TestGetChoice(t *testing.T) {
	var out bytes.Buffer
	got, err := GetChoice(rdr("sauna\nKitchen\n"), "Type", []string{"living", "kitchen"}, "", &out)
	require.NoError(t, err)
	assert.Equal(t, "kitchen", got)
	assert.Contains(t, out.String(), "Please answer one of: living, kitchen")

	got, err = GetChoice(rdr("\n"), "Type", []string{"living", "kitchen"}, "living", &out)
	require.NoError(t, err)
	assert.Equal(t, "living", got)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	yes, err := Confirm(rdr("y\n"), "Delete?", &out)
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := Confirm(rdr("\n"), "Delete?", &out)
	require.NoError(t, err)
	assert.False(t, no)
}
