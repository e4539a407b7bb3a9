package boq

import (
	"path/filepath"
	"strings"
)

type FileKind string

const (
	FileKindPDF       FileKind = "pdf"
	FileKindImage     FileKind = "image"
	FileKindBlueprint FileKind = "blueprint"
	FileKindOther     FileKind = "other"
)

var acceptedUploadExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"dwg":  {},
	"dxf":  {},
}

// NormalizeExt lowercases and trims the dot from a file name's extension.
func NormalizeExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ClassifyFileKind derives the coarse kind of a file from its extension.
func ClassifyFileKind(name string) FileKind {
	switch NormalizeExt(name) {
	case "pdf":
		return FileKindPDF
	case "jpg", "jpeg", "png", "gif", "webp":
		return FileKindImage
	case "dwg", "dxf":
		return FileKindBlueprint
	default:
		return FileKindOther
	}
}

func AcceptedUploadExtension(name string) bool {
	_, ok := acceptedUploadExtensions[NormalizeExt(name)]
	return ok
}

// ProjectName is the file's base name up to the first dot ("plan.v2.png" -> "plan").
func ProjectName(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
