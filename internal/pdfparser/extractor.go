package pdfparser

import (
	"bytes"
	"fmt"

	"github.com/dslipak/pdf"
)

// PDFExtractor defines the interface for extracting text from PDF files.
// It lets tests replace the real PDF reader.
type PDFExtractor interface {
	// ExtractText extracts text content from a PDF file at the given path.
	ExtractText(pdfPath string) (string, error)
}

// RealPDFExtractor implements PDFExtractor with github.com/dslipak/pdf.
type RealPDFExtractor struct{}

// NewRealPDFExtractor creates a new RealPDFExtractor instance.
func NewRealPDFExtractor() *RealPDFExtractor {
	return &RealPDFExtractor{}
}

// ExtractText returns the plain text of every page.
func (e *RealPDFExtractor) ExtractText(pdfPath string) (text string, err error) {
	// The PDF reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF %s: %v", pdfPath, r)
		}
	}()

	reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("error extracting PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("error reading PDF text: %w", err)
	}
	return buf.String(), nil
}

// MockPDFExtractor implements PDFExtractor for testing purposes.
// It returns predefined mock data instead of actually extracting from PDF files.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    int
}

// NewMockPDFExtractor creates a new MockPDFExtractor with the given mock data.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{
		MockText: mockText,
		MockErr:  mockErr,
	}
}

// ExtractText returns the predefined mock text or error.
func (e *MockPDFExtractor) ExtractText(pdfPath string) (string, error) {
	e.Calls++
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
