package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
)

// Errors returned by the package reader.
var (
	// ErrPartNotFound indicates a missing part.
	ErrPartNotFound = errors.New("part not found")
	// ErrNotZip indicates input that is not a zip archive.
	ErrNotZip = errors.New("not a zip archive")
	// ErrCompoundFile indicates a legacy compound binary document.
	ErrCompoundFile = errors.New("compound binary document")
)

// MaxPartSize bounds the uncompressed size of a single part.
const MaxPartSize = 1 << 30

// compoundMagic is the signature of compound binary documents.
var compoundMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Reader gives access to the parts of a zipped package.
type Reader struct {
	zr    *zip.Reader
	parts map[string]*zip.File
	rels  map[string]*Relationships
}

// NewReader opens a package. Compound binary documents are reported with
// ErrCompoundFile, any other non-zip input with ErrNotZip.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		if IsCompoundFile(r) {
			return nil, ErrCompoundFile
		}
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}
	pr := &Reader{
		zr:    zr,
		parts: make(map[string]*zip.File, len(zr.File)),
		rels:  make(map[string]*Relationships),
	}
	for _, f := range zr.File {
		pr.parts[strings.ToLower(strings.TrimPrefix(f.Name, "/"))] = f
	}
	return pr, nil
}

// IsCompoundFile reports whether r holds a compound binary document.
func IsCompoundFile(r io.ReaderAt) bool {
	head := make([]byte, len(compoundMagic))
	if _, err := r.ReadAt(head, 0); err != nil || !bytes.Equal(head, compoundMagic) {
		return false
	}
	_, err := mscfb.New(r)
	return err == nil
}

// Has reports whether the package holds part name (case-insensitive).
func (r *Reader) Has(name string) bool {
	_, ok := r.parts[strings.ToLower(name)]
	return ok
}

// Parts returns the part names in archive order.
func (r *Reader) Parts() []string {
	names := make([]string, 0, len(r.zr.File))
	for _, f := range r.zr.File {
		names = append(names, strings.TrimPrefix(f.Name, "/"))
	}
	return names
}

// Open opens part name for reading.
func (r *Reader) Open(name string) (io.ReadCloser, error) {
	f, ok := r.parts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	if f.UncompressedSize64 > MaxPartSize {
		return nil, fmt.Errorf("part %s exceeds %d bytes", name, MaxPartSize)
	}
	return f.Open()
}

// ReadPart reads the whole content of part name.
func (r *Reader) ReadPart(name string) ([]byte, error) {
	rc, err := r.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxPartSize))
}

// Rels returns the relationships of source, empty when it has none.
func (r *Reader) Rels(source string) (*Relationships, error) {
	if rels, ok := r.rels[source]; ok {
		return rels, nil
	}
	rels := &Relationships{Source: source}
	data, err := r.ReadPart(RelsPath(source))
	if err != nil && !errors.Is(err, ErrPartNotFound) {
		return nil, err
	}
	if data != nil {
		if rels.Items, err = parseRels(data); err != nil {
			return nil, fmt.Errorf("%s: %w", RelsPath(source), err)
		}
	}
	r.rels[source] = rels
	return rels, nil
}

// parseRels decodes the Relationship elements of a relationship part.
func parseRels(data []byte) ([]Relationship, error) {
	var result []Relationship
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel Relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.ID = attr.Value
				case "Type":
					rel.Type = attr.Value
				case "Target":
					rel.Target = attr.Value
				case "TargetMode":
					rel.External = attr.Value == "External"
				}
			}
			if rel.ID != "" {
				result = append(result, rel)
			}
		}
	}

	return result, nil
}
