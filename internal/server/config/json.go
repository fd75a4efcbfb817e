package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/smehub/internal/flagx"
	"github.com/dmitrijs2005/smehub/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations accept
// "30s"-style strings or integer nanoseconds. Absent keys leave the current
// value untouched.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	OpsAddrHTTP                  *string         `json:"ops_addr_http"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	OTPValidityDuration          *timex.Duration `json:"otp_validity_duration"`
	OTPResendCooldown            *timex.Duration `json:"otp_resend_cooldown"`
	OTPMaxAttempts               *int            `json:"otp_max_attempts"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	LogFormat                    *string         `json:"log_format"`
}

// parseJson overlays the file named by -c/-config onto config. Without the
// flag nothing happens; an unreadable or malformed file panics, since the
// server cannot start with a config it was explicitly pointed at.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.OpsAddrHTTP, c.OpsAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.OTPValidityDuration != nil {
		config.OTPValidityDuration = c.OTPValidityDuration.Duration
	}
	if c.OTPResendCooldown != nil {
		config.OTPResendCooldown = c.OTPResendCooldown.Duration
	}
	if c.OTPMaxAttempts != nil {
		config.OTPMaxAttempts = *c.OTPMaxAttempts
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
