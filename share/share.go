package share

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	IDLength    = 12
	MaxIDLength = 40
)

var ErrNotFound = errors.New("share not found")

// Entry is one submitted piece of ANSI art.
type Entry struct {
	ID      string
	Input   string
	Title   string
	Created time.Time
}

// entryRecord is the stored form of an Entry. Text is kept as bytes so art
// that is not valid UTF-8 comes back unchanged.
type entryRecord struct {
	ID      string    `json:"i"`
	Input   []byte    `json:"s"`
	Title   []byte    `json:"t"`
	Created time.Time `json:"c"`
}

type Store interface {
	// Put stores e unless an entry with the same ID exists. created is false
	// if it already existed.
	Put(e *Entry) (created bool, err error)
	Get(id string) (*Entry, error)
	// Recent returns up to n entries, newest first.
	Recent(n int) ([]*Entry, error)
}

// NewID derives the ID of input. Equal inputs share an ID.
func NewID(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:IDLength]
}

func NewEntry(input, title string, created time.Time) *Entry {
	return &Entry{
		ID:      NewID(input),
		Input:   input,
		Title:   strings.TrimSpace(title),
		Created: created,
	}
}

func validID(id string) bool {
	if id == "" || len(id) > MaxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

func encodeEntry(e *Entry) (string, error) {
	buf, err := json.Marshal(&entryRecord{
		ID:      e.ID,
		Input:   []byte(e.Input),
		Title:   []byte(e.Title),
		Created: e.Created,
	})
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func decodeEntry(data string) (*Entry, error) {
	var r entryRecord
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, err
	}
	return &Entry{
		ID:      r.ID,
		Input:   string(r.Input),
		Title:   string(r.Title),
		Created: r.Created,
	}, nil
}

// MemoryStore keeps entries in process. Entries never expire.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*Entry
	recent    []string
	maxRecent int
}

func NewMemoryStore(maxRecent int) *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]*Entry),
		maxRecent: maxRecent,
	}
}

func (s *MemoryStore) Put(e *Entry) (bool, error) {
	if !validID(e.ID) {
		return false, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; ok {
		return false, nil
	}
	cp := *e
	s.entries[e.ID] = &cp
	s.recent = append([]string{e.ID}, s.recent...)
	if s.maxRecent > 0 && len(s.recent) > s.maxRecent {
		s.recent = s.recent[:s.maxRecent]
	}
	return true, nil
}

func (s *MemoryStore) Get(id string) (*Entry, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) Recent(n int) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Entry
	for _, id := range s.recent {
		if len(out) >= n {
			break
		}
		cp := *s.entries[id]
		out = append(out, &cp)
	}
	return out, nil
}
