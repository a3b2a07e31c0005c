package model

import (
	"fmt"
	"mime"
	"strings"
)

// ContentType is the kind of asset a slide shows on a screen.
type ContentType string

const (
	ContentTypeImage ContentType = "Image"
	ContentTypeVideo ContentType = "Video"
	ContentTypeHtml  ContentType = "Html"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeImage, ContentTypeVideo, ContentTypeHtml:
		return true
	}
	return false
}

// ParseContentType accepts the wire names case-insensitively.
func ParseContentType(s string) (ContentType, error) {
	for _, t := range []ContentType{ContentTypeImage, ContentTypeVideo, ContentTypeHtml} {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// Content is the asset a slide shows on one screen. At most one non-archived
// row exists per (slide, screen).
type Content struct {
	ID          int         `db:"id"           json:"id"`
	SlideID     int         `db:"slide_id"     json:"slide"`
	ScreenID    int         `db:"screen_id"    json:"screen"`
	ContentType ContentType `db:"content_type" json:"content_type"`
	FilePath    string      `db:"file_path"    json:"file_path"`
	Archive     Lifecycle   `db:"archive_date" json:"archive_date"`
}

// ExtensionForMIME returns the file extension (without dot) for a declared
// MIME type, or "" when unknown.
func ExtensionForMIME(mimeType string) string {
	media, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ""
	}
	switch media {
	case "image/jpeg":
		return "jpeg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/svg+xml":
		return "svg"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	case "video/quicktime":
		return "mov"
	case "text/html":
		return "html"
	case "application/pdf":
		return "pdf"
	}
	return ""
}
