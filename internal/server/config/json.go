package config

import (
	"encoding/json"
	"os"

	"carsapi/internal/flagx"
)

// JSONConfig mirrors Config for file-based configuration. Zero values are
// treated as "not set" and leave the current value untouched, so a partial
// file only overrides what it names.
type JSONConfig struct {
	EndpointAddrHTTP    string `json:"endpoint_addr_http"`
	DatabaseDSN         string `json:"database_dsn"`
	PublicBaseURL       string `json:"public_base_url"`
	JWTSecretKey        string `json:"jwt_secret_key"`
	JWTIssuer           string `json:"jwt_issuer"`
	JWTAudience         string `json:"jwt_audience"`
	TokenExpirationDays int    `json:"token_expiration_days"`
	BlobBackend         string `json:"blob_backend"`
	UploadDir           string `json:"upload_dir"`
	S3RootUser          string `json:"s3_root_user"`
	S3RootPassword      string `json:"s3_root_password"`
	S3Bucket            string `json:"s3_bucket"`
	S3Region            string `json:"s3_region"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`
}

// parseJSON loads configuration from the file named by the -c/-config
// flags. When no flag is given, nothing is loaded. An unreadable or
// invalid file panics: a half-applied config file is worse than a crash
// at startup.
func parseJSON(config *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.PublicBaseURL, c.PublicBaseURL)
	overlay(&config.JWTSecretKey, c.JWTSecretKey)
	overlay(&config.JWTIssuer, c.JWTIssuer)
	overlay(&config.JWTAudience, c.JWTAudience)
	overlay(&config.BlobBackend, c.BlobBackend)
	overlay(&config.UploadDir, c.UploadDir)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.TokenExpirationDays != 0 {
		config.TokenExpirationDays = c.TokenExpirationDays
	}
}
