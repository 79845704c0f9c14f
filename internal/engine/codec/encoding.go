package codec

import (
	"encoding/json"
	"io"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Encode writes r as indented JSON. The record separator is written verbatim.
func Encode(w io.Writer, r domain.MetadataRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return zerr.Wrap(err, "failed to encode metadata record")
	}
	return nil
}

// EncodeYAML writes r as YAML.
func EncodeYAML(w io.Writer, r domain.MetadataRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return zerr.Wrap(err, "failed to encode metadata record")
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, "failed to flush metadata record")
	}
	return nil
}

// Decode reads one JSON record from r.
func Decode(r io.Reader) (domain.MetadataRecord, error) {
	var record domain.MetadataRecord
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return domain.MetadataRecord{}, zerr.Wrap(domain.ErrInvalidMetadataRecord, err.Error())
	}
	return record, nil
}
