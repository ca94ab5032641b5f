package config

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	testCases := []struct {
		raw          string
		expectedUser string
		expectedOrg  bool
	}{
		{raw: "alice", expectedUser: "alice"},
		{raw: "@acme", expectedUser: "acme", expectedOrg: true},
		{raw: " @acme ", expectedUser: "acme", expectedOrg: true},
		{raw: "@", expectedUser: "", expectedOrg: true},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			login, org := ParseTarget(tc.raw)
			assert.Equal(t, tc.expectedUser, login)
			assert.Equal(t, tc.expectedOrg, org)
		})
	}
}

func TestNew(t *testing.T) {
	opts, err := New("@acme", "backup", "token")
	require.NoError(t, err)

	assert.Equal(t, "acme", opts.Username)
	assert.True(t, opts.Organization)
	assert.Equal(t, "@acme", opts.Target())
	assert.True(t, filepath.IsAbs(opts.CloneBaseDir))
	assert.Equal(t, DefaultPageSize, opts.PageSize)
	assert.Equal(t, DefaultGitTimeout, opts.GitTimeout)
	assert.Equal(t, DefaultHTTPTimeout, opts.HTTPTimeout)
	assert.NoError(t, opts.Validate())
}

func TestOptions_Validate(t *testing.T) {
	valid := func() Options {
		opts, err := New("alice", "/backup", "token")
		require.NoError(t, err)
		return opts
	}

	testCases := []struct {
		name           string
		mutate         func(*Options)
		expectedErrMsg string
	}{
		{name: "valid", mutate: func(*Options) {}},
		{name: "missing username", mutate: func(o *Options) { o.Username = "" }, expectedErrMsg: "must be set"},
		{name: "slash in username", mutate: func(o *Options) { o.Username = "alice/tool" }, expectedErrMsg: "invalid target"},
		{name: "missing token", mutate: func(o *Options) { o.Token = "" }, expectedErrMsg: "GITHUB_TOKEN"},
		{name: "relative base", mutate: func(o *Options) { o.CloneBaseDir = "backup" }, expectedErrMsg: "absolute path"},
		{name: "page size zero", mutate: func(o *Options) { o.PageSize = 0 }, expectedErrMsg: "page size"},
		{name: "page size too large", mutate: func(o *Options) { o.PageSize = 101 }, expectedErrMsg: "page size"},
		{name: "no git timeout", mutate: func(o *Options) { o.GitTimeout = 0 }, expectedErrMsg: "git timeout"},
		{name: "no http timeout", mutate: func(o *Options) { o.HTTPTimeout = -1 }, expectedErrMsg: "http timeout"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := valid()
			tc.mutate(&opts)
			err := opts.Validate()
			if tc.expectedErrMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErrMsg)
		})
	}
}

func TestParseJSON(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectOK    bool
		expected    map[string]any
		expectedLog string
	}{
		{name: "valid object", input: `{"verbose": true, "page_size": 50}`, expectOK: true, expected: map[string]any{"verbose": true, "page_size": float64(50)}},
		{name: "invalid text", input: `{"verbose": tru`, expectedLog: "Parsing JSON failed"},
		{name: "empty input", input: ``, expectedLog: "Parsing JSON failed"},
		{name: "null", input: `null`, expectedLog: "expected an object"},
		{name: "array", input: `[1, 2]`, expectedLog: "Parsing JSON failed"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			out, ok := ParseJSON([]byte(tc.input), log.New(&buf, "", 0))
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expected, out)
			if tc.expectedLog != "" {
				assert.Contains(t, buf.String(), tc.expectedLog)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	t.Run("missing file yields empty defaults", func(t *testing.T) {
		d, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), logger)
		require.NoError(t, err)
		assert.Equal(t, FileDefaults{}, d)
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := LoadFile(path, logger)
		assert.Error(t, err)
	})

	t.Run("values applied unless the flag changed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"verbose": true, "omit_username": true, "include_archived": true, "save_json": true, "page_size": 25, "unknown": 1}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		d, err := LoadFile(path, logger)
		require.NoError(t, err)

		opts := Options{PageSize: DefaultPageSize}
		d.Apply(&opts, func(flag string) bool { return flag == "page-size" || flag == "verbose" })

		assert.False(t, opts.Verbose, "explicit flag wins")
		assert.True(t, opts.OmitUsername)
		assert.True(t, opts.IncludeArchived)
		assert.True(t, opts.SaveJSON)
		assert.Equal(t, DefaultPageSize, opts.PageSize, "explicit flag wins")
	})

	t.Run("wrongly typed values are ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"verbose": "yes", "page_size": "ten"}`), 0o644))

		d, err := LoadFile(path, logger)
		require.NoError(t, err)
		assert.Nil(t, d.Verbose)
		assert.Nil(t, d.PageSize)
	})
}

func TestResolveToken(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	env := func(values map[string]string) func(string) string {
		return func(key string) string { return values[key] }
	}

	assert.Equal(t, "from-flag", ResolveToken("from-flag", env(map[string]string{TokenEnv: "from-env"}), logger))

	chdir(t, t.TempDir())
	assert.Equal(t, "from-env", ResolveToken("", env(map[string]string{TokenEnv: "from-env"}), logger))
	assert.Equal(t, "", ResolveToken("", env(nil), logger))
}

func TestResolveToken_DotEnv(t *testing.T) {
	t.Setenv(TokenEnv, "")
	require.NoError(t, os.Unsetenv(TokenEnv))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(TokenEnv+"=from-dotenv\n"), 0o600))
	chdir(t, dir)

	assert.Equal(t, "from-dotenv", ResolveToken("", os.Getenv, log.New(io.Discard, "", 0)))
}
