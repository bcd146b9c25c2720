package sandbox

import (
	"crypto/rand"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ochronus/gopastebin/pastebin"
	"github.com/pkg/errors"
)

const (
	keyChars  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	keyLength = 8
)

var expiryDurations = map[string]time.Duration{
	"N":   0,
	"10M": 10 * time.Minute,
	"1H":  time.Hour,
	"1D":  24 * time.Hour,
	"1W":  7 * 24 * time.Hour,
	"2W":  14 * 24 * time.Hour,
	"1M":  30 * 24 * time.Hour,
	"6M":  182 * 24 * time.Hour,
	"1Y":  365 * 24 * time.Hour,
}

var formatNames = map[string]string{
	"text":       "None",
	"go":         "Go",
	"bash":       "Bash",
	"c":          "C",
	"cpp":        "C++",
	"java":       "Java",
	"javascript": "JavaScript",
	"json":       "JSON",
	"python":     "Python",
	"ruby":       "Ruby",
	"rust":       "Rust",
	"sql":        "SQL",
	"xml":        "XML",
	"yaml":       "YAML",
}

// NewPaste describes a paste to store.
type NewPaste struct {
	Owner      string
	Content    string
	Title      string
	Format     string
	ExpireDate string
	Visibility pastebin.Visibility
	// BaseURL prefixes the paste URL.
	BaseURL string
}

type entry struct {
	owner   string
	content string
	seq     uint64
	expires time.Time
	paste   pastebin.Paste
}

// Store keeps pastes in memory. The least recently used paste is evicted once
// capacity is reached.
type Store struct {
	mu     sync.Mutex
	pastes *lru.Cache[string, *entry]
	seq    uint64
	now    func() time.Time
}

// NewStore creates a store holding at most capacity pastes.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, errors.New("store capacity must be positive")
	}
	c, err := lru.New[string, *entry](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "create paste cache")
	}
	return &Store{
		pastes: c,
		now:    time.Now,
	}, nil
}

// ValidExpireDate reports whether code is an expiration the service accepts.
func ValidExpireDate(code string) bool {
	_, ok := expiryDurations[code]
	return ok
}

// Add stores a paste and returns it with its key and URL filled in.
func (s *Store) Add(p NewPaste) (pastebin.Paste, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.newKey()
	if err != nil {
		return pastebin.Paste{}, err
	}

	now := s.now()
	format := p.Format
	if format == "" {
		format = "text"
	}
	formatLong, ok := formatNames[format]
	if !ok {
		formatLong = format
	}
	title := strings.Join(strings.Fields(p.Title), " ")
	if title == "" {
		title = "Untitled"
	}

	e := &entry{
		owner:   p.Owner,
		content: p.Content,
		paste: pastebin.Paste{
			Key:         key,
			Date:        now.Unix(),
			Title:       title,
			Size:        int64(len(p.Content)),
			ExpireDate:  "0",
			Visibility:  p.Visibility,
			FormatLong:  formatLong,
			FormatShort: format,
			URL:         strings.TrimRight(p.BaseURL, "/") + "/" + key,
		},
	}
	if ttl := expiryDurations[p.ExpireDate]; ttl > 0 {
		e.expires = now.Add(ttl)
		e.paste.ExpireDate = formatUnix(e.expires)
	}

	s.seq++
	e.seq = s.seq
	s.pastes.Add(key, e)

	return e.paste, nil
}

// Record is a stored paste with its content and owner.
type Record struct {
	Paste   pastebin.Paste
	Content string
	Owner   string
}

// Get returns a stored paste as seen by viewer, counting a hit. Private
// pastes are only visible to their owner.
func (s *Store) Get(key, viewer string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		return Record{}, false
	}
	if e.paste.Visibility == pastebin.Private && (viewer == "" || viewer != e.owner) {
		return Record{}, false
	}
	s.pastes.Get(key)
	e.paste.Hits++
	return Record{Paste: e.paste, Content: e.content, Owner: e.owner}, true
}

// List returns the pastes owned by owner, newest first, at most limit of
// them.
func (s *Store) List(owner string, limit int) []pastebin.Paste {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []*entry
	for _, key := range s.pastes.Keys() {
		e, ok := s.lookup(key)
		if !ok || e.owner != owner || owner == "" {
			continue
		}
		owned = append(owned, e)
	}

	sort.Slice(owned, func(i, j int) bool { return owned[i].seq > owned[j].seq })
	if limit > 0 && len(owned) > limit {
		owned = owned[:limit]
	}

	pastes := make([]pastebin.Paste, 0, len(owned))
	for _, e := range owned {
		pastes = append(pastes, e.paste)
	}
	return pastes
}

// Delete removes a paste owned by owner.
func (s *Store) Delete(owner, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok || owner == "" || e.owner != owner {
		return false
	}
	s.pastes.Remove(key)
	return true
}

// Len returns the number of stored pastes, expired ones included until they
// are next looked at.
func (s *Store) Len() int {
	return s.pastes.Len()
}

// lookup peeks so that listing does not disturb eviction order. Callers hold
// s.mu.
func (s *Store) lookup(key string) (*entry, bool) {
	e, ok := s.pastes.Peek(key)
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.pastes.Remove(key)
		return nil, false
	}
	return e, true
}

func (s *Store) newKey() (string, error) {
	for retry := 0; retry < 5; retry++ {
		key, err := randomKey()
		if err != nil {
			return "", err
		}
		if !s.pastes.Contains(key) {
			return key, nil
		}
	}
	return "", errors.New("key collision after 5 retries")
}

func randomKey() (string, error) {
	max := big.NewInt(int64(len(keyChars)))
	key := make([]byte, keyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "rand fail")
		}
		key[i] = keyChars[n.Int64()]
	}
	return string(key), nil
}

func formatUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
