package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCX opens the OOXML package and walks word/document.xml, emitting
// paragraph text (including paragraphs inside table cells) in document order.
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", corrupt(FormatDOCX, "failed to open docx package", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	if strings.TrimSpace(content) == "" {
		return "", corrupt(FormatDOCX, "word/document.xml is empty", nil)
	}

	text, err := documentXMLText(content)
	if err != nil {
		return "", corrupt(FormatDOCX, "malformed word/document.xml", err)
	}
	return cleanText(text), nil
}

// documentXMLText collects w:t runs. Paragraph ends become newlines, w:tab a tab,
// w:br and w:cr a newline, and each table cell is separated by a tab.
func documentXMLText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false

	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			case "tc":
				sb.WriteByte('\t')
			case "tr":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
