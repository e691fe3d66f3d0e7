package models

import (
	"path/filepath"
	"strings"
)

// File type categories stored on FileDocument.Type.
const (
	TypeDocument = "document"
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeOther    = "other"
)

var extensionTypes = map[string]string{
	// documents
	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"txt": TypeDocument, "md": TypeDocument, "rtf": TypeDocument,
	"xls": TypeDocument, "xlsx": TypeDocument, "csv": TypeDocument,
	"ppt": TypeDocument, "pptx": TypeDocument, "odt": TypeDocument,
	// images
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"bmp": TypeImage, "svg": TypeImage, "webp": TypeImage, "heic": TypeImage,
	// video
	"mp4": TypeVideo, "mov": TypeVideo, "avi": TypeVideo, "mkv": TypeVideo,
	"webm": TypeVideo,
	// audio
	"mp3": TypeAudio, "wav": TypeAudio, "flac": TypeAudio, "ogg": TypeAudio,
	"m4a": TypeAudio,
}

// FileTypeFor derives the stored type category and extension from a file
// name. Unknown extensions map to TypeOther.
func FileTypeFor(name string) (fileType, extension string) {
	extension = strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if extension == "" {
		return TypeOther, ""
	}
	if t, ok := extensionTypes[extension]; ok {
		return t, extension
	}
	return TypeOther, extension
}
