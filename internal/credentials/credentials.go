// Package credentials resolves the provider credential at startup from
// exactly one source. Resolved values are opaque and never logged.
package credentials

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	secretmanager "google.golang.org/api/secretmanager/v1"
)

var ErrAmbiguousSource = errors.New("credential given both directly and as a secret; set only one")

// Source names where the credential lives. Value is a literal credential
// (usually from an environment variable); SecretName is a Secret Manager
// version such as projects/p/secrets/GEMINI_API_KEY/versions/latest.
type Source struct {
	Value      string
	SecretName string
}

func (s Source) Mechanism() string {
	switch {
	case s.Value != "":
		return "direct"
	case s.SecretName != "":
		return "secret_manager"
	default:
		return "none"
	}
}

// Resolve returns "" with no error when neither field is set.
func Resolve(ctx context.Context, src Source, opts ...option.ClientOption) (string, error) {
	switch {
	case src.Value != "" && src.SecretName != "":
		return "", ErrAmbiguousSource
	case src.Value != "":
		return strings.TrimSpace(src.Value), nil
	case src.SecretName != "":
		return accessSecret(ctx, src.SecretName, opts...)
	default:
		return "", nil
	}
}

func accessSecret(ctx context.Context, name string, opts ...option.ClientOption) (string, error) {
	svc, err := secretmanager.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to connect to secret manager: %w", err)
	}

	res, err := svc.Projects.Secrets.Versions.Access(name).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	if res.Payload == nil || res.Payload.Data == "" {
		return "", fmt.Errorf("secret %s has no payload", name)
	}

	data, err := base64.StdEncoding.DecodeString(res.Payload.Data)
	if err != nil {
		return "", fmt.Errorf("secret %s payload is not base64: %w", name, err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("secret %s is empty", name)
	}
	return value, nil
}
