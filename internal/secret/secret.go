// Package secret resolves credentials by name, optionally decrypting
// Fernet tokens stored in the environment.
package secret

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
)

var (
	ErrMissing     = errors.New("credential not set")
	ErrInvalidKey  = errors.New("invalid encryption key")
	ErrUndecodable = errors.New("credential is not a valid token for the configured key")
)

// Provider returns the plain value of a named credential.
type Provider interface {
	Get(name string) (string, error)
}

// LookupFunc reads a raw value, typically from the environment or viper.
type LookupFunc func(name string) string

type EnvProvider struct {
	lookup LookupFunc
}

func NewEnvProvider(lookup LookupFunc) *EnvProvider {
	return &EnvProvider{lookup: lookup}
}

func (p *EnvProvider) Get(name string) (string, error) {
	value := strings.TrimSpace(p.lookup(name))
	if value == "" {
		return "", fmt.Errorf("%s: %w", name, ErrMissing)
	}
	return value, nil
}

// FernetProvider decrypts values read from another provider.
type FernetProvider struct {
	base Provider
	keys []*fernet.Key
}

func NewFernetProvider(base Provider, encodedKey string) (*FernetProvider, error) {
	key, err := fernet.DecodeKey(strings.TrimSpace(encodedKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &FernetProvider{base: base, keys: []*fernet.Key{key}}, nil
}

func (p *FernetProvider) Get(name string) (string, error) {
	token, err := p.base.Get(name)
	if err != nil {
		return "", err
	}
	// a negative ttl disables the token age check
	plain := fernet.VerifyAndDecrypt([]byte(token), -1, p.keys)
	if plain == nil {
		return "", fmt.Errorf("%s: %w", name, ErrUndecodable)
	}
	return string(plain), nil
}

// Encrypt produces a token that FernetProvider can read back with the same key.
func Encrypt(encodedKey, value string) (string, error) {
	key, err := fernet.DecodeKey(strings.TrimSpace(encodedKey))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	token, err := fernet.EncryptAndSign([]byte(value), key)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// GenerateKey returns a new random key encoded for ENCRYPTION_KEY.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", err
	}
	return key.Encode(), nil
}
