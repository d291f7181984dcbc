package models

// VersionEntry is one historical release listed on the versions page.
type VersionEntry struct {
	Version string `json:"version" yaml:"version"`
	URL     string `json:"url" yaml:"url"`
}

// VersionManifest is the ordered list of releases read from versions.json.
// Display order is manifest order; duplicates are kept.
type VersionManifest []VersionEntry
