package export

import (
	"io"
	"time"

	"github.com/careinsight/recordpdf/seal"
)

// Artifact is a rendered file ready for download or storage.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
	Pages       int
	Lines       int
	Overflows   int
	// Substituted counts characters drawn with a replacement glyph.
	Substituted int
	Redactions  int
	CreatedAt   time.Time
}

// WriteTo writes the artifact bytes to w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	return int64(n), err
}

const (
	sealedSuffix      = ".sealed"
	ContentTypeSealed = "application/octet-stream"
)

// Seal returns a copy of the artifact encrypted under passphrase and named
// with a ".sealed" suffix.
func (a *Artifact) Seal(passphrase string, opts seal.Options) (*Artifact, error) {
	data, err := seal.Seal(a.Data, passphrase, opts)
	if err != nil {
		return nil, NewError(KindValidation, "seal artifact", err)
	}
	sealed := *a
	sealed.Name = a.Name + sealedSuffix
	sealed.ContentType = ContentTypeSealed
	sealed.Data = data
	return &sealed, nil
}
