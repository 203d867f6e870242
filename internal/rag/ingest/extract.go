package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

type docType string

const (
	docTypePDF  docType = "PDF"
	docTypeText docType = "TEXT"
	docTypeErr  docType = "ERROR"
)

func getDocType(docPath string) docType {
	switch strings.ToLower(filepath.Ext(docPath)) {
	case ".pdf":
		return docTypePDF
	case ".docx", ".txt", ".rtf", ".odt":
		return docTypeText
	default:
		return docTypeErr
	}
}

// extractText pulls the plain text out of the downloaded file. An empty
// result is legal, scanned PDFs often yield nothing.
func extractText(path string) (string, error) {
	switch getDocType(path) {
	case docTypePDF:
		return extractPDF(path)
	case docTypeText:
		text, err := cat.File(path)
		if err != nil {
			return "", commonModels.NewError(commonModels.KindExtraction, "document text extraction failed", err)
		}
		return text, nil
	default:
		return "", commonModels.NewError(commonModels.KindExtraction,
			fmt.Sprintf("unsupported document type %q", filepath.Ext(path)), nil)
	}
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", commonModels.NewError(commonModels.KindExtraction, "failed to open pdf", err)
	}

	var full strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// one unreadable page should not sink the document
			logger.Warn("Skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		full.WriteString(content)
	}
	return full.String(), nil
}

// protectExtract guards against the pdf parser hanging on a corrupt page.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}
