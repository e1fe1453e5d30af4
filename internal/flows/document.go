// Package flows implements the named inference flows of the proposal
// engine: bill-of-materials extraction, strategy recommendation, the
// conversational challenge protocol, and the Sherpa setup assistant.
package flows

import (
	"encoding/base64"
	"fmt"
	"strings"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
)

// Document is a binary attachment such as a PDF drawing or a location
// spreadsheet.
type Document struct {
	MIMEType string
	Data     []byte
}

// ParseDataURI decodes a "data:<mime>;base64,<data>" URI, the wire format
// clients use for uploads.
func ParseDataURI(uri string) (Document, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Document{}, perrors.NewValidation("document", "not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Document{}, perrors.NewValidation("document", "data URI has no payload")
	}
	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return Document{}, perrors.NewValidation("document", "data URI must be base64-encoded")
	}
	if mime == "" {
		return Document{}, perrors.NewValidation("document", "data URI has no MIME type")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Document{}, perrors.NewValidation("document", fmt.Sprintf("decoding base64 payload: %v", err))
	}
	return Document{MIMEType: mime, Data: data}, nil
}

// DataURI renders the document back into the data-URI wire format.
func (d Document) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", d.MIMEType, base64.StdEncoding.EncodeToString(d.Data))
}
