package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first when present; real environment
// variables win over the file.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString(&config.EndpointAddrHTTP, "CARSAPI_HTTP_ADDR")
	setString(&config.DatabaseDSN, "CARSAPI_DATABASE_DSN")
	setString(&config.PublicBaseURL, "CARSAPI_PUBLIC_BASE_URL")
	setString(&config.JWTSecretKey, "CARSAPI_JWT_KEY")
	setString(&config.JWTIssuer, "CARSAPI_JWT_ISSUER")
	setString(&config.JWTAudience, "CARSAPI_JWT_AUDIENCE")
	setString(&config.BlobBackend, "CARSAPI_BLOB_BACKEND")
	setString(&config.UploadDir, "CARSAPI_UPLOAD_DIR")
	setString(&config.S3RootUser, "CARSAPI_S3_ROOT_USER")
	setString(&config.S3RootPassword, "CARSAPI_S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "CARSAPI_S3_BUCKET")
	setString(&config.S3Region, "CARSAPI_S3_REGION")
	setString(&config.S3BaseEndpoint, "CARSAPI_S3_BASE_ENDPOINT")

	if v, ok := os.LookupEnv("CARSAPI_TOKEN_EXPIRATION_DAYS"); ok {
		if days, err := strconv.Atoi(v); err == nil {
			config.TokenExpirationDays = days
		}
	}
}
