// Package staging holds the artist's upload draft: files are validated and
// previewed locally and only reach the platform on submit.
package staging

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrDisallowedFile is returned for a file that does not match the kind it was
// staged as. The previous selection is kept.
var ErrDisallowedFile = errors.New("file type not allowed")

type MediaKind string

const (
	KindAudio     MediaKind = "audio"
	KindVideo     MediaKind = "video"
	KindThumbnail MediaKind = "thumbnail"
)

func ParseKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(s)) {
	case KindAudio:
		return KindAudio, nil
	case KindVideo:
		return KindVideo, nil
	case KindThumbnail:
		return KindThumbnail, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// IsMedia reports whether k is the playable file of a content item.
func (k MediaKind) IsMedia() bool {
	return k == KindAudio || k == KindVideo
}

// ContentType is the platform content type for a media kind.
func (k MediaKind) ContentType() string {
	switch k {
	case KindAudio:
		return "AUDIO"
	case KindVideo:
		return "VIDEO"
	}
	return ""
}

// IntakeSource records how a file entered the draft.
type IntakeSource string

const (
	SourcePicker IntakeSource = "picker"
	SourceDrop   IntakeSource = "drop"
	SourcePaste  IntakeSource = "paste"
)

func ParseSource(s string) IntakeSource {
	switch IntakeSource(strings.ToLower(s)) {
	case SourceDrop:
		return SourceDrop
	case SourcePaste:
		return SourcePaste
	}
	return SourcePicker
}

// allowedTypes maps each accepted extension to the content type the file is
// stored and served with.
var allowedTypes = map[MediaKind]map[string]string{
	KindAudio: {".mp3": "audio/mpeg", ".wav": "audio/wav", ".m4a": "audio/mp4"},
	KindVideo: {".mp4": "video/mp4", ".mov": "video/quicktime", ".mkv": "video/x-matroska"},
}

// AllowedExtensions lists the accepted extensions for kind, sorted. Thumbnails are
// checked by content instead and return nil.
func AllowedExtensions(kind MediaKind) []string {
	exts := make([]string, 0, len(allowedTypes[kind]))
	for ext := range allowedTypes[kind] {
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		return nil
	}
	sort.Strings(exts)
	return exts
}

// FileType is what a staged file is stored and served as. Neither field comes
// from the name the client sent unless that name passed the allow-list.
type FileType struct {
	ContentType string
	Extension   string
}

// Validate checks a file against the allow-list of kind. Audio and video are
// typed by their allow-listed extension, thumbnails by their sniffed content.
func Validate(kind MediaKind, name string, data []byte) (FileType, error) {
	if kind == KindThumbnail {
		detected := mimetype.Detect(data)
		// svg is an image that can carry script
		if !strings.HasPrefix(detected.String(), "image/") || detected.Is("image/svg+xml") {
			return FileType{}, fmt.Errorf("%w: thumbnail must be a raster image", ErrDisallowedFile)
		}
		return FileType{ContentType: detected.String(), Extension: detected.Extension()}, nil
	}

	types, ok := allowedTypes[kind]
	if !ok {
		return FileType{}, fmt.Errorf("unknown media kind %q", kind)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if contentType, ok := types[ext]; ok {
		return FileType{ContentType: contentType, Extension: ext}, nil
	}
	return FileType{}, fmt.Errorf("%w: %s files must be one of %s", ErrDisallowedFile, kind, strings.Join(AllowedExtensions(kind), ", "))
}
