package pastebin

import (
	"html"
	"strconv"
	"strings"
)

// The list response is a flat pseudo-XML stream:
//
//	<paste>
//		<paste_key>0b42rwhf</paste_key>
//		<paste_date>1297953260</paste_date>
//		...
//	</paste>
//
// ParseList only understands that shape. Attributes, nested elements and
// content spanning several lines are not supported and are reported as
// malformed or silently dropped. Several elements may share a physical line.

const (
	recordOpen  = "<paste>"
	recordClose = "</paste>"
)

var requiredFields = []string{
	"key", "date", "title", "size", "expire_date",
	"private", "url", "hits", "format_long", "format_short",
}

type parseState int

const (
	awaitingRecord parseState = iota
	inRecord
	recordComplete
)

type listParser struct {
	state  parseState
	fields map[string]string
	pastes []Paste
	line   int
}

// ParseList parses the lines of a list response into pastes, in input order.
// Text outside of records is ignored, so "No pastes found." yields an empty
// result. Any record missing a field fails the whole parse.
func ParseList(lines []string) ([]Paste, error) {
	p := &listParser{pastes: []Paste{}}
	for i, line := range lines {
		p.line = i + 1
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	if p.state == inRecord {
		return nil, p.errorf("response ended inside a record")
	}
	return p.pastes, nil
}

func (p *listParser) errorf(format string, args ...interface{}) error {
	e := newError(ErrMalformedResponse, format, args...)
	e.Message = "line " + strconv.Itoa(p.line) + ": " + e.Message
	return e
}

func (p *listParser) feed(line string) error {
	rest := strings.TrimSpace(line)
	for rest != "" {
		var err error
		switch {
		case strings.HasPrefix(rest, recordOpen):
			err = p.open()
			rest = rest[len(recordOpen):]
		case strings.HasPrefix(rest, recordClose):
			err = p.close()
			rest = rest[len(recordClose):]
		case p.state != inRecord:
			return nil
		default:
			rest, err = p.element(rest)
		}
		if err != nil {
			return err
		}
		rest = strings.TrimSpace(rest)
	}
	return nil
}

func (p *listParser) open() error {
	if p.state == inRecord {
		return p.errorf("record opened before the previous one was closed")
	}
	p.state = inRecord
	p.fields = make(map[string]string, len(requiredFields))
	return nil
}

func (p *listParser) close() error {
	if p.state != inRecord {
		return p.errorf("record closed without being opened")
	}
	paste, err := p.build()
	if err != nil {
		return err
	}
	p.pastes = append(p.pastes, paste)
	p.fields = nil
	p.state = recordComplete
	return nil
}

// element consumes one <prefix_name>content</prefix_name> and returns what
// follows it on the line.
func (p *listParser) element(rest string) (string, error) {
	if rest[0] != '<' {
		return "", p.errorf("unexpected text %q inside record", rest)
	}
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return "", p.errorf("unterminated tag in %q", rest)
	}
	tag := rest[1:gt]
	us := strings.IndexByte(tag, '_')
	if us < 0 || us == len(tag)-1 {
		return "", p.errorf("tag <%s> has no field name", tag)
	}
	name := tag[us+1:]

	body := rest[gt+1:]
	lt := strings.IndexByte(body, '<')
	if lt < 0 {
		return "", p.errorf("element <%s> is not closed on the same line", tag)
	}
	closing := "</" + tag + ">"
	if !strings.HasPrefix(body[lt:], closing) {
		return "", p.errorf("element <%s> is not closed by %s", tag, closing)
	}
	if _, dup := p.fields[name]; dup {
		return "", p.errorf("field %q repeated in record", name)
	}
	p.fields[name] = html.UnescapeString(body[:lt])
	return body[lt+len(closing):], nil
}

func (p *listParser) build() (Paste, error) {
	for _, name := range requiredFields {
		if _, ok := p.fields[name]; !ok {
			return Paste{}, p.errorf("record is missing field %q", name)
		}
	}

	date, err := p.integer("date")
	if err != nil {
		return Paste{}, err
	}
	size, err := p.integer("size")
	if err != nil {
		return Paste{}, err
	}
	hits, err := p.integer("hits")
	if err != nil {
		return Paste{}, err
	}
	private, err := p.integer("private")
	if err != nil {
		return Paste{}, err
	}
	visibility := Visibility(private)
	if !visibility.Valid() {
		return Paste{}, p.errorf("field \"private\" out of range: %d", private)
	}

	return Paste{
		Key:         p.fields["key"],
		Date:        date,
		Title:       p.fields["title"],
		Size:        size,
		ExpireDate:  p.fields["expire_date"],
		Visibility:  visibility,
		FormatLong:  p.fields["format_long"],
		FormatShort: p.fields["format_short"],
		URL:         p.fields["url"],
		Hits:        hits,
	}, nil
}

func (p *listParser) integer(name string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(p.fields[name]), 10, 64)
	if err != nil {
		return 0, p.errorf("field %q is not an integer: %q", name, p.fields[name])
	}
	return n, nil
}
