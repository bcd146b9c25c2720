package pastebin

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Visibility controls how discoverable a paste is.
type Visibility int

const (
	Public Visibility = iota
	Unlisted
	Private
)

// Ptr returns a pointer to v, for use in PasteOptions.
func (v Visibility) Ptr() *Visibility {
	return &v
}

// Valid reports whether v is one of the three levels the service knows.
func (v Visibility) Valid() bool {
	return v >= Public && v <= Private
}

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Unlisted:
		return "unlisted"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// ParseVisibility accepts either the name or the numeric level.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "unlisted":
		return Unlisted, nil
	case "private":
		return Private, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Visibility(n).Valid() {
		return 0, fmt.Errorf("invalid visibility %q: must be public, unlisted, private or 0-2", s)
	}
	return Visibility(n), nil
}

// Paste is the metadata of a stored paste as reported by the list query.
type Paste struct {
	Key         string
	Date        int64
	Title       string
	Size        int64
	ExpireDate  string
	Visibility  Visibility
	FormatLong  string
	FormatShort string
	URL         string
	Hits        int64
}

// CreatedAt returns the creation date as a time.
func (p Paste) CreatedAt() time.Time {
	return time.Unix(p.Date, 0)
}

func (p Paste) String() string {
	return fmt.Sprintf("[%s: %s]", p.Key, p.Title)
}

// FindByTitle returns the first paste whose title is exactly title.
func FindByTitle(pastes []Paste, title string) (Paste, bool) {
	for _, p := range pastes {
		if p.Title == title {
			return p, true
		}
	}
	return Paste{}, false
}
