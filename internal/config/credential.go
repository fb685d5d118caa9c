package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// Credential is the provider token. It is resolved once at startup and
// never changes afterwards. String() hides the value so it can't leak into logs.
type Credential struct {
	value  string
	Source string
}

func (c Credential) Value() string { return c.value }

func (c Credential) String() string {
	if c.value == "" {
		return "<unset>"
	}
	return "<redacted from " + c.Source + ">"
}

// CredentialProvider is one place a credential may come from.
type CredentialProvider interface {
	Name() string
	// Lookup reports found=false when the provider simply has no value.
	// An error means the source exists but could not be read.
	Lookup(ctx context.Context, key string) (value string, found bool, err error)
}

// SecretsFileProvider reads a flat YAML map of secrets, e.g.
//
//	OPENAI_API_KEY: sk-...
//
// A missing file is treated as not found.
type SecretsFileProvider struct {
	Path string
}

func (p *SecretsFileProvider) Name() string { return "secrets-file:" + p.Path }

func (p *SecretsFileProvider) Lookup(ctx context.Context, key string) (string, bool, error) {
	if p.Path == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read secrets file: %w", err)
	}

	var secrets map[string]string
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return "", false, fmt.Errorf("parse secrets file %s: %w", p.Path, err)
	}

	v, ok := secrets[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false, nil
	}
	return v, true, nil
}

// EnvProvider reads the credential from the process environment. Values from
// .env files are visible here once LoadEnvFiles has run.
type EnvProvider struct {
	Getenv func(string) string
}

func (p *EnvProvider) Name() string { return "env" }

func (p *EnvProvider) Lookup(ctx context.Context, key string) (string, bool, error) {
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	v := getenv(key)
	if strings.TrimSpace(v) == "" {
		return "", false, nil
	}
	return v, true, nil
}

// DefaultCredentialProviders returns the precedence used at startup: the
// secrets file, then the environment.
func DefaultCredentialProviders(cfg *Config) []CredentialProvider {
	return []CredentialProvider{
		&SecretsFileProvider{Path: cfg.SecretsFile},
		&EnvProvider{},
	}
}

// ResolveCredential asks each provider in order for key and returns the first
// value found. Nothing found, a malformed value, or an unreadable source is a
// *domain.ConfigurationError.
func ResolveCredential(ctx context.Context, key string, providers ...CredentialProvider) (Credential, error) {
	tried := make([]string, 0, len(providers))

	for _, p := range providers {
		tried = append(tried, p.Name())

		v, found, err := p.Lookup(ctx, key)
		if err != nil {
			return Credential{}, &domain.ConfigurationError{Field: key, Reason: err.Error(), Tried: tried}
		}
		if !found {
			continue
		}

		v = strings.TrimSpace(v)
		if strings.ContainsAny(v, " \t\r\n") {
			return Credential{}, &domain.ConfigurationError{
				Field:  key,
				Reason: "value from " + p.Name() + " contains whitespace",
				Tried:  tried,
			}
		}
		return Credential{value: v, Source: p.Name()}, nil
	}

	return Credential{}, &domain.ConfigurationError{
		Field:  key,
		Reason: fmt.Sprintf("not set; add %s to the secrets file or export it in the environment", key),
		Tried:  tried,
	}
}
