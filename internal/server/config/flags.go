package config

import (
	"flag"
	"os"

	"carsapi/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-i string   JWT issuer
//	-w string   JWT audience
//	-x int      token expiration, days
//	-m string   blob backend ("local" or "s3")
//	-o string   upload directory (local backend)
//	-l string   public base URL
//	-u string   S3 root user
//	-k string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Args are first filtered through flagx.FilterArgs so this set does not
// collide with flags owned by other components (notably -c/-config).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-i", "-w", "-x", "-m", "-o", "-l", "-u", "-k", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecretKey, "s", config.JWTSecretKey, "JWT secret key")
	fs.StringVar(&config.JWTIssuer, "i", config.JWTIssuer, "JWT issuer")
	fs.StringVar(&config.JWTAudience, "w", config.JWTAudience, "JWT audience")

	tokenExpirationDays := fs.Int("x", config.TokenExpirationDays, "token expiration (in days)")

	fs.StringVar(&config.BlobBackend, "m", config.BlobBackend, "blob backend: local or s3")
	fs.StringVar(&config.UploadDir, "o", config.UploadDir, "upload directory for the local backend")
	fs.StringVar(&config.PublicBaseURL, "l", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "k", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenExpirationDays = *tokenExpirationDays
}
