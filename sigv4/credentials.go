package sigv4

import (
	"log/slog"
	"os"
)

const (
	EnvAccessKeyID     = "FLATFILES_ACCESS_KEY_ID"
	EnvSecretAccessKey = "FLATFILES_SECRET_ACCESS_KEY"
)

// Credentials is a static access key pair. Session tokens are not supported.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// CredentialsFromEnv returns the key pair configured through the
// environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		AccessKeyID:     os.Getenv(EnvAccessKeyID),
		SecretAccessKey: os.Getenv(EnvSecretAccessKey),
	}
}

// IsZero reports whether neither key is set.
func (c Credentials) IsZero() bool {
	return c.AccessKeyID == "" && c.SecretAccessKey == ""
}

// String never includes the secret so credentials can't leak into logs.
func (c Credentials) String() string {
	return "Credentials{AccessKeyID: " + c.AccessKeyID + ", SecretAccessKey: <redacted>}"
}

// GoString keeps %#v from printing the secret.
func (c Credentials) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("access_key_id", c.AccessKeyID))
}
