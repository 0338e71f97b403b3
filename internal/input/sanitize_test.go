package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Jane", want: "Jane"},
		{name: "trims", in: "  Jane \t\n", want: "Jane"},
		{name: "strips backslashes", in: `O\'Brien`, want: "O&#39;Brien"},
		{name: "escapes tags", in: `<script>alert("x")</script>`, want: "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;"},
		{name: "escapes bare ampersand", in: "Tom & Jerry", want: "Tom &amp; Jerry"},
		{name: "keeps named reference", in: "Tom &amp; Jerry", want: "Tom &amp; Jerry"},
		{name: "keeps numeric reference", in: "it&#39;s", want: "it&#39;s"},
		{name: "short name is not a reference", in: "&a;", want: "&amp;a;"},
		{name: "composes accents", in: "José", want: "José"},
		{name: "backslash before space then trim", in: "Doe \\", want: "Doe"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Jane",
		`a\\\\b`,
		`\\`,
		"<b>bold</b> & 'quotes' \"double\"",
		"&amp;&lt;&gt;&#34;&#39;&#x27;",
		"&&&;;;",
		"&#12345678;",
		"Mária  de   la Cruz",
		"  Jane ",
		"\\ <\\>",
		"&notanentitybecauseitiswaytoolongtobeoneatall;",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		require.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "Jane Doe", NormalizeSpace("Jane  Doe"))
	require.Equal(t, "Jane Q Doe", NormalizeSpace(" Jane \t Q\n Doe "))
	require.Equal(t, "", NormalizeSpace("   "))
}

func TestIsEmail(t *testing.T) {
	require.True(t, IsEmail("a@b.com"))
	require.True(t, IsEmail("juan.dela-cruz@lgu.gov.ph"))
	require.False(t, IsEmail(""))
	require.False(t, IsEmail("not-an-email"))
	require.False(t, IsEmail("a@"))
	require.False(t, IsEmail("@b.com"))
}

func TestPasswordLongEnough(t *testing.T) {
	require.False(t, PasswordLongEnough("12345"))
	require.True(t, PasswordLongEnough("secret1"))
	require.True(t, PasswordLongEnough("123456"))
}

func TestLocalPart(t *testing.T) {
	require.Equal(t, "a", LocalPart("a@b.com"))
	require.Equal(t, "juan.cruz", LocalPart("juan.cruz@lgu.gov.ph"))
	require.Equal(t, "nodomain", LocalPart("nodomain"))
}
