// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner discovers the files a generation run wrote.
package scanner

import (
	"path"
	"strings"
	"time"
)

// FileKind classifies a generated file.
type FileKind string

// File kinds.
const (
	KindModule        FileKind = "module"
	KindDataContracts FileKind = "data-contracts"
	KindHTTPClient    FileKind = "http-client"
	KindSchema        FileKind = "schema"
	KindOther         FileKind = "other"
)

// GeneratedFile represents a discovered output file.
type GeneratedFile struct {
	// Path is the absolute path to the file
	Path string

	// RelPath is the slash-separated path relative to the scanned directory
	RelPath string

	Kind    FileKind
	Content []byte
	ModTime time.Time
}

// knownFiles maps fixed output file names to their kind.
var knownFiles = map[string]FileKind{
	"data-contracts.ts": KindDataContracts,
	"http-client.ts":    KindHTTPClient,
	"schema.ts":         KindSchema,
}

// DetectKind classifies a generated file by name.
func DetectKind(relPath string) FileKind {
	name := path.Base(relPath)
	if kind, ok := knownFiles[name]; ok {
		return kind
	}
	if strings.HasSuffix(name, ".ts") && !strings.HasSuffix(name, ".d.ts") {
		return KindModule
	}
	return KindOther
}
