package pastebin

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsEncode(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected string
	}{
		{
			name:     "empty set",
			params:   Params{},
			expected: "",
		},
		{
			name:     "keeps insertion order",
			params:   Params{DevKey("D1"), UserName("u"), UserPassword("p")},
			expected: "api_dev_key=D1&api_user_name=u&api_user_password=p",
		},
		{
			name:     "skips omitted fields",
			params:   Params{DevKey("D1"), PasteName(""), APIOption(OptionList), ResultsLimit(0)},
			expected: "api_dev_key=D1&api_option=list",
		},
		{
			name:     "omitted last field leaves no separator",
			params:   Params{DevKey("D1"), OptionalUserKey("")},
			expected: "api_dev_key=D1",
		},
		{
			name:     "omitted first field leaves no separator",
			params:   Params{OptionalUserKey(""), DevKey("D1")},
			expected: "api_dev_key=D1",
		},
		{
			name:     "empty required value is sent",
			params:   Params{DevKey(""), UserKey("")},
			expected: "api_dev_key=&api_user_key=",
		},
		{
			name:     "escapes separators in values",
			params:   Params{PasteCode("a=1&b=2\n")},
			expected: "api_paste_code=a%3D1%26b%3D2%0A",
		},
		{
			name:     "all omitted",
			params:   Params{PasteName(""), ExpireDate(""), PastePrivate(nil)},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.params.Encode())
		})
	}
}

func TestParamsEncodeSegments(t *testing.T) {
	params := Params{
		DevKey("dev key"),
		UserKey("k&y"),
		PasteCode("x=y"),
		PasteName(""),
		Param{Name: "api_custom", Value: Omit},
		PasteFormat("go"),
		ResultsLimit(1000),
	}

	encoded := params.Encode()
	assert.False(t, strings.HasSuffix(encoded, "&"))
	assert.NotContains(t, encoded, Omit)

	segments := strings.Split(encoded, "&")
	require.Len(t, segments, 5)

	seen := map[string]string{}
	for _, segment := range segments {
		parts := strings.SplitN(segment, "=", 2)
		require.Len(t, parts, 2, "segment %q", segment)
		assert.NotContains(t, parts[1], "=")
		value, err := url.QueryUnescape(parts[1])
		require.NoError(t, err)
		seen[parts[0]] = value
	}

	assert.Equal(t, map[string]string{
		"api_dev_key":       "dev key",
		"api_user_key":      "k&y",
		"api_paste_code":    "x=y",
		"api_paste_format":  "go",
		"api_results_limit": "1000",
	}, seen)
}

func TestNamedParams(t *testing.T) {
	tests := []struct {
		param    Param
		expected string
	}{
		{DevKey("v"), "api_dev_key"},
		{UserName("v"), "api_user_name"},
		{UserPassword("v"), "api_user_password"},
		{PasteCode("v"), "api_paste_code"},
		{PastePrivate(Unlisted.Ptr()), "api_paste_private"},
		{PasteName("v"), "api_paste_name"},
		{ExpireDate("v"), "api_expire_date"},
		{PasteFormat("v"), "api_paste_format"},
		{UserKey("v"), "api_user_key"},
		{OptionalUserKey("v"), "api_user_key"},
		{ResultsLimit(5), "api_results_limit"},
		{PasteKey("v"), "api_paste_key"},
		{APIOption(OptionShowPaste), "api_option"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.param.Name)
			assert.NotEqual(t, Omit, tt.param.Value)
		})
	}

	assert.Equal(t, "1", PastePrivate(Unlisted.Ptr()).Value)
	assert.Equal(t, "5", ResultsLimit(5).Value)
}

func TestParamsGet(t *testing.T) {
	params := Params{DevKey("D1"), APIOption(OptionDelete)}

	value, ok := params.Get("api_option")
	assert.True(t, ok)
	assert.Equal(t, OptionDelete, value)

	_, ok = params.Get("api_paste_key")
	assert.False(t, ok)
}
