package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gopherchat/internal/flagx"
	"github.com/dmitrijs2005/gopherchat/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration, shared by the JSON
// and YAML formats. Durations accept both "168h" strings and nanoseconds.
// Only non-zero values override the current Config.
type FileConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	StorageDriver                string         `json:"storage_driver" yaml:"storage_driver"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration" yaml:"session_token_validity_duration"`
	CookieSecure                 *bool          `json:"cookie_secure" yaml:"cookie_secure"`
	DefaultProfilePic            string         `json:"default_profile_pic" yaml:"default_profile_pic"`
	MaxRequestBodyBytes          int64          `json:"max_request_body_bytes" yaml:"max_request_body_bytes"`
	AllowedOrigins               []string       `json:"allowed_origins" yaml:"allowed_origins"`
	LogLevel                     string         `json:"log_level" yaml:"log_level"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicURL                  string         `json:"s3_public_url" yaml:"s3_public_url"`
}

// parseFile loads the file named by -c/-config, if any. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. An unreadable
// or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.StorageDriver, fc.StorageDriver)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	if fc.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = fc.SessionTokenValidityDuration.Duration
	}
	if fc.CookieSecure != nil {
		config.CookieSecure = *fc.CookieSecure
	}
	setString(&config.DefaultProfilePic, fc.DefaultProfilePic)
	if fc.MaxRequestBodyBytes != 0 {
		config.MaxRequestBodyBytes = fc.MaxRequestBodyBytes
	}
	if len(fc.AllowedOrigins) > 0 {
		config.AllowedOrigins = fc.AllowedOrigins
	}
	setString(&config.LogLevel, fc.LogLevel)
	setString(&config.S3RootUser, fc.S3RootUser)
	setString(&config.S3RootPassword, fc.S3RootPassword)
	setString(&config.S3Bucket, fc.S3Bucket)
	setString(&config.S3Region, fc.S3Region)
	setString(&config.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&config.S3PublicURL, fc.S3PublicURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
