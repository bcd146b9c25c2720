package pastebin

import (
	"net/url"
	"strconv"
	"strings"
)

// Omit marks a parameter that must not be sent at all. It differs from an
// empty value, which is sent as "name=".
const Omit = "\x00omit\x00"

// Values accepted by the api_option field.
const (
	OptionPaste     = "paste"
	OptionList      = "list"
	OptionDelete    = "delete"
	OptionShowPaste = "show_paste"
)

// Param is a single named API field.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered set of API fields. Encoding keeps insertion order so
// requests are deterministic.
type Params []Param

// Encode produces the form body name1=value1&name2=value2. Omitted fields
// are skipped entirely.
func (p Params) Encode() string {
	var sb strings.Builder
	for _, param := range p {
		if param.Value == Omit {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(param.Name)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

// Get returns the value of the first field called name.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

func optional(v string) string {
	if v == "" {
		return Omit
	}
	return v
}

// DevKey is the developer key, sent with every query.
func DevKey(v string) Param { return Param{"api_dev_key", v} }

// UserName is the login name.
func UserName(v string) Param { return Param{"api_user_name", v} }

// UserPassword is the login password.
func UserPassword(v string) Param { return Param{"api_user_password", v} }

// UserKey is a required user key, sent even when empty.
func UserKey(v string) Param { return Param{"api_user_key", v} }

// PasteCode is the paste content, sent even when empty.
func PasteCode(v string) Param { return Param{"api_paste_code", v} }

// PasteKey identifies an existing paste.
func PasteKey(v string) Param { return Param{"api_paste_key", v} }

// APIOption selects the operation on the post and raw endpoints.
func APIOption(v string) Param { return Param{"api_option", v} }

// OptionalUserKey omits the field when v is empty, which makes a paste
// anonymous.
func OptionalUserKey(v string) Param { return Param{"api_user_key", optional(v)} }

// PasteName is the paste title, omitted when empty.
func PasteName(v string) Param { return Param{"api_paste_name", optional(v)} }

// ExpireDate is the expiration code such as "N" or "1D", omitted when empty.
func ExpireDate(v string) Param { return Param{"api_expire_date", optional(v)} }

// PasteFormat is the syntax highlighting format, omitted when empty.
func PasteFormat(v string) Param { return Param{"api_paste_format", optional(v)} }

// PastePrivate omits the field when v is nil.
func PastePrivate(v *Visibility) Param {
	if v == nil {
		return Param{"api_paste_private", Omit}
	}
	return Param{"api_paste_private", strconv.Itoa(int(*v))}
}

// ResultsLimit omits the field when n is not positive.
func ResultsLimit(n int) Param {
	if n <= 0 {
		return Param{"api_results_limit", Omit}
	}
	return Param{"api_results_limit", strconv.Itoa(n)}
}
