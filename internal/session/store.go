package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

var (
	// ErrNotFound is returned by Store.Load when nothing is stored.
	ErrNotFound = errors.New("session: no stored session")
	// ErrCorrupt is returned by Store.Load when the stored snapshot cannot be used.
	ErrCorrupt = errors.New("session: stored session is corrupt")
)

// Record is the durable layout: five entries written and cleared together.
// Person and User hold JSON documents; TokenTimestamp is unix milliseconds.
type Record struct {
	Token          string `yaml:"token"`
	TokenType      string `yaml:"token_type"`
	Person         string `yaml:"person"`
	User           string `yaml:"user"`
	TokenTimestamp string `yaml:"token_timestamp"`
}

func (r Record) complete() bool {
	return r.Token != "" && r.TokenType != "" && r.Person != "" && r.User != "" && r.TokenTimestamp != ""
}

// Store persists a single session Record.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// FileStore keeps the Record in a YAML file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored Record. A missing file yields ErrNotFound; an
// unreadable, unparsable or partial file yields an error wrapping ErrCorrupt.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !rec.complete() {
		return Record{}, fmt.Errorf("%w: missing entries", ErrCorrupt)
	}
	return rec, nil
}

// Save replaces the stored Record atomically (temp file + rename), so readers
// see either the old five entries or the new five entries.
func (s *FileStore) Save(rec Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session.Save: marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("session.Save: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session.Save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session.Save: rename: %w", err)
	}
	return nil
}

// Clear removes the stored Record. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// encode splits a Session into its durable entries. The account is stored
// on its own; the person entry carries the profile only.
func encode(s Session) (Record, error) {
	profile := s.Identity
	profile.User = nil
	person, err := json.Marshal(profile)
	if err != nil {
		return Record{}, fmt.Errorf("encode person: %w", err)
	}
	user, err := json.Marshal(s.Identity.User)
	if err != nil {
		return Record{}, fmt.Errorf("encode user: %w", err)
	}
	return Record{
		Token:          s.Credential,
		TokenType:      s.Scheme,
		Person:         string(person),
		User:           string(user),
		TokenTimestamp: strconv.FormatInt(s.IssuedAt.UnixMilli(), 10),
	}, nil
}

func decode(rec Record) (Session, error) {
	var person domain.Person
	if err := json.Unmarshal([]byte(rec.Person), &person); err != nil {
		return Session{}, fmt.Errorf("%w: person: %v", ErrCorrupt, err)
	}
	var user domain.Account
	if err := json.Unmarshal([]byte(rec.User), &user); err != nil {
		return Session{}, fmt.Errorf("%w: user: %v", ErrCorrupt, err)
	}
	ms, err := strconv.ParseInt(rec.TokenTimestamp, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("%w: timestamp: %v", ErrCorrupt, err)
	}
	person.User = &user
	s := Session{
		Credential: rec.Token,
		Scheme:     rec.TokenType,
		Identity:   person,
		IssuedAt:   time.UnixMilli(ms),
	}
	if !s.complete() {
		return Session{}, fmt.Errorf("%w: incomplete session", ErrCorrupt)
	}
	return s, nil
}
