package pipeline

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// DefaultFileName is where the builder writes the document unless configured otherwise
const DefaultFileName = "pipeline_cli.json"

// Encode writes the document as JSON indented by two spaces
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "unable to encode pipeline document")
	}
	return nil
}

// Decode parses a document previously produced by Encode
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "unable to decode pipeline document")
	}
	return &doc, nil
}

// WriteFile replaces path with the encoded document
func WriteFile(path string, doc *Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "unable to close file %s", path)
		}
	}()

	return Encode(f, doc)
}

func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open file %s", path)
	}
	defer f.Close()

	return Decode(f)
}
