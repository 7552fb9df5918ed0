package textprep

import "testing"

func TestPDFToText_MalformedInput(t *testing.T) {
	for _, content := range [][]byte{
		nil,
		[]byte("not a pdf at all"),
		[]byte("%PDF-1.4 truncated"),
	} {
		if _, err := PDFToText(content); err == nil {
			t.Errorf("expected error for malformed input %q", content)
		}
	}
}
