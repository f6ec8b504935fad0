package loader

import (
	"net/url"
	"strings"
)

// SourceKind identifies where a schema document lives.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source points at a schema document.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	return string(s.Kind) + ":" + s.Location
}

// FileSource references a document on disk.
func FileSource(path string) Source {
	return Source{Kind: SourceKindFile, Location: path}
}

// FSSource references a document inside the loader's fs.FS.
func FSSource(name string) Source {
	return Source{Kind: SourceKindFS, Location: name}
}

// URLSource references a document served over HTTP.
func URLSource(location string) Source {
	return Source{Kind: SourceKindURL, Location: location}
}

// SourceFromLocation picks URLSource for http(s) locations and FileSource for
// everything else.
func SourceFromLocation(location string) Source {
	location = strings.TrimSpace(location)
	if parsed, err := url.Parse(location); err == nil {
		switch strings.ToLower(parsed.Scheme) {
		case "http", "https":
			return URLSource(location)
		}
	}
	return FileSource(location)
}
