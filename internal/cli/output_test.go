package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phonebook/internal/record"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeStore, "failed to open database", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E003", resp.Error.Code)
	assert.Equal(t, "failed to open database", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(SeedResult{Kind: "people", Generated: 3, Inserted: 2, Skipped: 1})
	require.NoError(t, err)
	assert.Equal(t, "Seeded people: 3 generated, 2 inserted, 1 skipped (name already taken)\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error(ErrCodeKind, "unknown kind", map[string]string{"kind": "pets"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E004]: unknown kind")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(ErrCodeKind, "unknown kind", map[string]string{"kind": "pets"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E004]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_RecordsText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Records([]record.Record{
		{Kind: record.Contacts, ID: "c-1", Name: "Ada Lovelace", PhoneNumber: "+44 20 7946 0000"},
		{Kind: record.Contacts, ID: "c-22", Name: "Grace Hopper", PhoneNumber: "+1 202 555 0100"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID    NAME          PHONE NUMBER", lines[0])
	assert.Equal(t, "c-1   Ada Lovelace  +44 20 7946 0000", lines[1])
	assert.Equal(t, "c-22  Grace Hopper  +1 202 555 0100", lines[2])
}

func TestOutputFormatter_RecordsTextEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Records(nil))
	assert.Equal(t, "No records.\n", buf.String())
}

func TestOutputFormatter_RecordsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Records([]record.Record{
		{Kind: record.Contacts, ID: "c-1", Name: "Ada Lovelace", PhoneNumber: "+44 20 7946 0000"},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"status":"ok","data":[{"id":"c-1","name":"Ada Lovelace","phone_number":"+44 20 7946 0000"}]}`,
		buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			errBuf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    buf,
				ErrWriter: errBuf,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Seeding %d %s", 5, "contacts")

			assert.Empty(t, buf.String())
			if tt.wantLog {
				assert.Equal(t, "Seeding 5 contacts\n", errBuf.String())
			} else {
				assert.Empty(t, errBuf.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	wrapped := WrapExitError(ExitFailure, "server error", errors.New("listen: address in use"))
	assert.Equal(t, "server error: listen: address in use", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}
