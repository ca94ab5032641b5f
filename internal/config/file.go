package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// TokenEnv is the environment variable holding the GitHub token.
const TokenEnv = "GITHUB_TOKEN"

// FileDefaults holds the values a JSON defaults file may provide.
// Command line flags always take precedence.
type FileDefaults struct {
	Verbose         *bool
	OmitUsername    *bool
	IncludeArchived *bool
	SaveJSON        *bool
	PageSize        *int
}

// ParseJSON decodes data into a generic object. Invalid input, including empty
// input, logs a diagnostic and returns false.
func ParseJSON(data []byte, logger *log.Logger) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Printf("Parsing JSON failed: %v", err)
		return nil, false
	}
	if out == nil {
		logger.Printf("Parsing JSON failed: expected an object")
		return nil, false
	}
	return out, true
}

// LoadFile reads a JSON defaults file. A missing file yields empty defaults.
func LoadFile(path string, logger *log.Logger) (FileDefaults, error) {
	var d FileDefaults
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, fmt.Errorf("failed to read config file: %w", err)
	}

	raw, ok := ParseJSON(data, logger)
	if !ok {
		return d, fmt.Errorf("failed to parse config file %s", path)
	}

	d.Verbose = boolField(raw, "verbose")
	d.OmitUsername = boolField(raw, "omit_username")
	d.IncludeArchived = boolField(raw, "include_archived")
	d.SaveJSON = boolField(raw, "save_json")
	if v, ok := raw["page_size"].(float64); ok {
		n := int(v)
		d.PageSize = &n
	}
	return d, nil
}

func boolField(raw map[string]any, key string) *bool {
	v, ok := raw[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// Apply copies every value the file provided into opts, unless the matching
// flag was set explicitly.
func (d FileDefaults) Apply(opts *Options, changed func(flag string) bool) {
	if d.Verbose != nil && !changed("verbose") {
		opts.Verbose = *d.Verbose
	}
	if d.OmitUsername != nil && !changed("omit-username") {
		opts.OmitUsername = *d.OmitUsername
	}
	if d.IncludeArchived != nil && !changed("include-archived") {
		opts.IncludeArchived = *d.IncludeArchived
	}
	if d.SaveJSON != nil && !changed("save-json") {
		opts.SaveJSON = *d.SaveJSON
	}
	if d.PageSize != nil && !changed("page-size") {
		opts.PageSize = *d.PageSize
	}
}

// ResolveToken returns the flag value if set, otherwise GITHUB_TOKEN.
// A .env file in the working directory is loaded first when present.
func ResolveToken(flagValue string, getenv func(string) string, logger *log.Logger) string {
	if flagValue != "" {
		return flagValue
	}
	if err := godotenv.Load(); err != nil {
		logger.Println("No .env file loaded, using environment variables")
	}
	return getenv(TokenEnv)
}
