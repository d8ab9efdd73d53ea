package main

import (
	"bytes"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPasswordFromPipe(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline", "Passw0rd\n", "Passw0rd"},
		{"crlf", "Passw0rd\r\n", "Passw0rd"},
		{"no trailing newline", "Passw0rd", "Passw0rd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPassword(strings.NewReader(tt.input), &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := readPassword(strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	err := goerrors.NewValidation("Validation failed",
		goerrors.FieldError{Field: "params.email", Message: "Invalid email format"},
	).WithMetadata(map[string]any{"at": "objects[0]"})

	msg := describe(err).Error()
	assert.True(t, strings.HasPrefix(msg, "objects[0]: Validation failed"))
	assert.Contains(t, msg, "Invalid email format")
	assert.Contains(t, msg, `"params"`)

	plain := assert.AnError
	assert.Equal(t, plain, describe(plain))
}

func TestConfigShowMasksSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret-value")

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"config", "show", "--env-file", ""})

	require.NoError(t, root.Execute())
	assert.NotContains(t, out.String(), "super-secret-value")
	assert.Contains(t, out.String(), "********")
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"seed"},
		{"admin", "create"},
		{"audio", "backfill"},
		{"config", "show"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
