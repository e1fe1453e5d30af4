package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
)

func TestParseDataURI(t *testing.T) {
	doc, err := ParseDataURI("data:application/pdf;base64,JVBERi0xLjQ=")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), doc.Data)
}

func TestDocument_DataURIRoundTrip(t *testing.T) {
	doc := Document{MIMEType: "text/csv", Data: []byte("street,city\n1 Main St,Springfield\n")}
	parsed, err := ParseDataURI(doc.DataURI())
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestParseDataURI_Invalid(t *testing.T) {
	cases := []struct {
		name string
		uri  string
	}{
		{"not a data URI", "https://example.com/drawing.pdf"},
		{"no payload", "data:application/pdf;base64"},
		{"not base64", "data:application/pdf;utf8,hello"},
		{"missing mime", "data:;base64,JVBERi0xLjQ="},
		{"bad payload", "data:application/pdf;base64,!!!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDataURI(tc.uri)
			var vErr *perrors.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}
