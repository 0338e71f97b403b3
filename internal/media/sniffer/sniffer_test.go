package sniffer

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
	}{
		{name: "jpeg", head: []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, want: TypeJPEG},
		{name: "png", head: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, want: TypePNG},
		{name: "pdf", head: []byte("%PDF-1.7\n%âãÏÓ"), want: TypePDF},
		{name: "pdf with preamble", head: []byte("\r\n%PDF-1.4"), want: TypePDF},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHead(tc.head)
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Type)
		})
	}
}

func TestDetectHeadRejectsOtherContent(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte("GIF89a"),
		[]byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"),
		[]byte("MZ\x90\x00"),
	} {
		_, err := DetectHead(head)
		require.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectReturnsConsumedHead(t *testing.T) {
	body := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("x"), 1000)...)
	result, head, err := Detect(bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, TypePDF, result.Type)
	require.Len(t, head, 512)
	require.Equal(t, body[:512], head)
}

func TestResultExt(t *testing.T) {
	jpeg, err := DetectHead([]byte{0xff, 0xd8, 0xff, 0xe0})
	require.NoError(t, err)
	require.Equal(t, "jpeg", jpeg.Ext(".JPEG"))
	require.Equal(t, "jpg", jpeg.Ext("jpg"))
	require.Equal(t, "jpg", jpeg.Ext("exe"))
	require.Equal(t, "jpg", jpeg.Ext(""))
}

func TestMimeTypeFromHTTP(t *testing.T) {
	h := http.Header{}
	require.Equal(t, "", MimeTypeFromHTTP(h))
	h.Set("Content-Type", "application/pdf; charset=binary")
	require.Equal(t, "application/pdf", MimeTypeFromHTTP(h))
}
