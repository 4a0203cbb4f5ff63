package auth

import (
	"crypto/subtle"
	"errors"
	"sync"

	"mercator-hq/trigon/pkg/config"
)

var (
	// ErrInvalidKey is returned for an unknown key.
	ErrInvalidKey = errors.New("invalid API key")

	// ErrKeyDisabled is returned for a configured but disabled key.
	ErrKeyDisabled = errors.New("API key disabled")
)

// KeyValidator checks API keys against a configured set.
type KeyValidator struct {
	mu   sync.RWMutex
	keys []config.APIKeyConfig
}

// NewKeyValidator creates a validator for keys.
func NewKeyValidator(keys []config.APIKeyConfig) *KeyValidator {
	v := &KeyValidator{}
	v.Replace(keys)
	return v
}

// Validate returns the matching key's name.
func (v *KeyValidator) Validate(key string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	// Compare against every key without returning early.
	var match *config.APIKeyConfig
	for i := range v.keys {
		if subtle.ConstantTimeCompare([]byte(v.keys[i].Key), []byte(key)) == 1 {
			match = &v.keys[i]
		}
	}

	if match == nil {
		return "", ErrInvalidKey
	}
	if match.Disabled {
		return "", ErrKeyDisabled
	}
	return match.Name, nil
}

// Replace swaps the configured keys.
func (v *KeyValidator) Replace(keys []config.APIKeyConfig) {
	cp := make([]config.APIKeyConfig, len(keys))
	copy(cp, keys)

	v.mu.Lock()
	v.keys = cp
	v.mu.Unlock()
}

// Len returns the number of configured keys.
func (v *KeyValidator) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}
