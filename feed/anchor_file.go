package feed

import (
	"os"
	"strings"
	"time"
)

// AnchorFile reads the marker position from a small text file holding one
// RFC3339 timestamp. The human moves the anchor by rewriting the file; an
// absent or empty file means no marker. This is the plain-filesystem stand-in
// for a charting surface's draggable marker.
type AnchorFile struct {
	path string
}

func NewAnchorFile(path string) *AnchorFile {
	return &AnchorFile{path: path}
}

func (a *AnchorFile) Anchor() (time.Time, bool) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
