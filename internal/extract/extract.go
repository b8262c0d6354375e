package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"signflow-backend/internal/shared/storage/object"
	"signflow-backend/internal/shared/util"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeHTML = "text/html"
	mimeText = "text/plain"
)

// ErrUnsupportedFormat is returned for mime types the extractor cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrCorruptFile is returned when a supported format cannot be parsed.
var ErrCorruptFile = errors.New("corrupt document file")

// Content is the extractor's output contract consumed by the analysis engine.
type Content struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
	WordCount int    `json:"wordCount"`
	Language  string `json:"language"`
	FileHash  string `json:"fileHash"`
	MimeType  string `json:"mimeType"`
}

// FromStore pulls a stored object, extracts its text, and persists a derived
// .extracted.txt copy next to the original so re-analysis skips parsing.
func FromStore(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return Content{}, fmt.Errorf("extract key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Content{}, fmt.Errorf("extract key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	content, err := FromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return Content{}, fmt.Errorf("extract key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(content.Text)); err != nil {
		return Content{}, fmt.Errorf("extract key=%s mime=%s: save derived: %w", fileKey, mimeType, err)
	}

	return content, nil
}

// FromBytes extracts text and metadata from an in-memory payload.
func FromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	normalized := normalizeMimeType(mimeType, fileName, data)

	var (
		text  string
		pages int
		err   error
	)
	switch normalized {
	case mimePDF:
		text, pages, err = extractPDF(data)
	case mimeDOCX:
		text, err = extractDOCX(data)
	case mimeHTML:
		text, err = extractHTML(data)
	case mimeText:
		text = string(data)
	default:
		return Content{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, normalized)
	}
	if err != nil {
		return Content{}, err
	}

	text = strings.TrimSpace(text)
	words := len(strings.Fields(text))
	if pages == 0 {
		pages = estimatePages(words)
	}

	return Content{
		Text:      text,
		PageCount: pages,
		WordCount: words,
		Language:  detectLanguage(text),
		FileHash:  util.HashBytes(data),
		MimeType:  normalized,
	}, nil
}

func extractPDF(data []byte) (string, int, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: pdf: %v", ErrCorruptFile, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("%w: pdf text: %v", ErrCorruptFile, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, fmt.Errorf("%w: pdf read: %v", ErrCorruptFile, err)
	}
	return buf.String(), pdfReader.NumPage(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx data", ErrCorruptFile)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx zip: %v", ErrCorruptFile, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: document.xml not found", ErrCorruptFile)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx open: %v", ErrCorruptFile, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: docx read: %v", ErrCorruptFile, err)
	}
	return stripDocxXML(string(raw)), nil
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: html: %v", ErrCorruptFile, err)
	}
	doc.Find("script, style, noscript").Remove()
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	var b strings.Builder
	root.Find("p, h1, h2, h3, h4, h5, h6, li, td, th, div").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if txt := strings.TrimSpace(sel.Text()); txt != "" {
			b.WriteString(txt)
			b.WriteString("\n")
		}
	})
	if b.Len() == 0 {
		return strings.TrimSpace(root.Text()), nil
	}
	return strings.TrimSpace(b.String()), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// estimatePages approximates page count for formats without page structure.
func estimatePages(words int) int {
	const wordsPerPage = 400
	pages := words/wordsPerPage + 1
	return pages
}

var commonEnglishWords = []string{"the", "and", "of", "to", "in", "is", "this", "that", "for", "with", "shall", "agreement"}

// detectLanguage is a cheap stopword heuristic; the engine only distinguishes
// English from everything else for the compliance language check.
func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return "unknown"
	}
	sample := strings.ToLower(text)
	if len(sample) > 4000 {
		sample = sample[:4000]
	}
	padded := " " + strings.Join(strings.Fields(sample), " ") + " "
	hits := 0
	for _, w := range commonEnglishWords {
		if strings.Contains(padded, " "+w+" ") {
			hits++
		}
	}
	if hits >= 3 {
		return "en"
	}
	return "unknown"
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "application/zip":
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
	case "", "application/octet-stream":
		// fall through to extension mapping
	default:
		return clean
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".html", ".htm":
		return mimeHTML
	case ".txt":
		return mimeText
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
