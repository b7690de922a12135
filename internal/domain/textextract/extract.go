// Package textextract turns uploaded resume files into plain text.
package textextract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported content types.
const (
	TypePlain = "text/plain"
	TypePDF   = "application/pdf"
	TypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]string{ //nolint:gochecknoglobals // static lookup
	".txt":  TypePlain,
	".text": TypePlain,
	".md":   TypePlain,
	".pdf":  TypePDF,
	".docx": TypeDOCX,
}

// Supported reports whether contentType has an extractor.
func Supported(contentType string) bool {
	switch contentType {
	case TypePlain, TypePDF, TypeDOCX:
		return true
	}
	return false
}

// DetectContentType resolves the content type of an upload. A supported
// declared type wins; otherwise the file extension decides. The result is
// empty when neither is known.
func DetectContentType(fileName, declared string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && Supported(mt) {
		return mt
	}
	return extensionTypes[strings.ToLower(filepath.Ext(fileName))]
}

// Extract returns the text of a document of the given content type.
func Extract(contentType string, data []byte) (string, error) {
	switch contentType {
	case TypePlain:
		return string(data), nil
	case TypePDF:
		return extractPDF(data)
	case TypeDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrUnreadable, err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrUnreadable, err)
	}
	defer doc.Close()

	return xmlText(doc.Editable().GetContent())
}

// xmlText collects the character data of a WordprocessingML body, one line
// per paragraph.
func xmlText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: docx xml: %v", ErrUnreadable, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteString(" ")
			}
		}
	}
	return b.String(), nil
}
