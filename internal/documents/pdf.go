package documents

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ImportPDF extracts the plain text of the PDF at pdfPath and saves it as
// <name>.md.
func (s *Store) ImportPDF(name, pdfPath string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	text, err := extractPDFText(pdfPath)
	if err != nil {
		return "", &IOError{Op: "read pdf", Path: pdfPath, Err: err}
	}
	return s.Save(name, text)
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
