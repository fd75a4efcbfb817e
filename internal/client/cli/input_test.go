package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetChoice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		options []string
		want    string
		reasked bool
	}{
		{name: "exact", input: "sme\n", options: []string{"sme", "donor"}, want: "sme"},
		{name: "case folded", input: "Donor\n", options: []string{"sme", "donor"}, want: "donor"},
		{name: "reprompt until valid", input: "bank\ndonor\n", options: []string{"sme", "donor"}, want: "donor", reasked: true},
		{name: "free text", input: "250000\n", want: "250000"},
		{name: "escape", input: ":skip\n", options: []string{"sme"}, want: ":skip"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetChoice(rdr(tc.input), "Pick", tc.options, ":skip", &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.reasked, strings.Contains(out.String(), "Please choose one of"))
		})
	}
}

func TestGetChoice_EOF(t *testing.T) {
	var out bytes.Buffer
	_, err := GetChoice(rdr("bank\n"), "Pick", []string{"sme"}, "", &out)
	require.Error(t, err)
}

func TestGetList(t *testing.T) {
	opts := []string{"finance", "legal", "software"}

	var out bytes.Buffer
	got, esc, err := GetList(rdr("finance, LEGAL,,\n"), "Skills", opts, ":skip", &out)
	require.NoError(t, err)
	require.Empty(t, esc)
	require.Equal(t, []string{"finance", "legal"}, got)

	out.Reset()
	got, _, err = GetList(rdr("finance, cooking\nsoftware\n"), "Skills", opts, ":skip", &out)
	require.NoError(t, err)
	require.Equal(t, []string{"software"}, got)
	require.Contains(t, out.String(), `Unknown option "cooking"`)

	got, esc, err = GetList(rdr(":skip\n"), "Skills", opts, ":skip", &out)
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, ":skip", esc)

	got, _, err = GetList(rdr("\n"), "Skills", opts, ":skip", &out)
	require.NoError(t, err)
	require.Empty(t, got)
}
