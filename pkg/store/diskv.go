package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/skej/pkg/event"
)

// Credentials is the persisted authentication record. Restored at boot by the
// session store; erased on logout.
type Credentials struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Persistence is the local storage contract: the signed-in credentials and a
// last-known copy of the active event so the wizard can bootstrap offline.
type Persistence interface {
	Credentials() (*Credentials, error)
	StoreCredentials(c *Credentials) error
	ClearCredentials() error

	CachedEvent() (*event.View, error)
	StoreCachedEvent(v *event.View) error
	ClearCachedEvent() error

	Watch(ctx context.Context) (<-chan Event, error)
}

// ErrNotFound is returned when the requested record has never been stored.
var ErrNotFound = errors.New("store: not found")

const (
	keyCredentials = "auth-credentials"
	keyCachedEvent = "cache-event"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Credentials() (*Credentials, error) {
	var c Credentials
	if err := p.read(keyCredentials, &c); err != nil {
		return nil, err
	}
	if c.Token == "" {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (p *persistence) StoreCredentials(c *Credentials) error {
	if c == nil || c.Token == "" || c.Email == "" {
		return errors.New("store: incomplete credentials")
	}
	return p.write(keyCredentials, c)
}

func (p *persistence) ClearCredentials() error {
	return p.erase(keyCredentials)
}

func (p *persistence) CachedEvent() (*event.View, error) {
	var v event.View
	if err := p.read(keyCachedEvent, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *persistence) StoreCachedEvent(v *event.View) error {
	if v == nil {
		return p.erase(keyCachedEvent)
	}
	return p.write(keyCachedEvent, v)
}

func (p *persistence) ClearCachedEvent() error {
	return p.erase(keyCachedEvent)
}

func (p *persistence) read(key string, out any) error {
	val, err := p.d.Read(key)
	if err != nil {
		return ErrNotFound
	}
	if err := json.Unmarshal(val, out); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}

func (p *persistence) write(key string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return p.d.Write(key, data)
}

func (p *persistence) erase(key string) error {
	if err := p.d.Erase(key); err != nil && p.d.Has(key) {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
