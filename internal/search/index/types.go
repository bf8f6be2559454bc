package index

import "strings"

// MinDBVersion is the oldest index format this build can read.
const MinDBVersion = 2

const (
	manifestFile = "esearchdb.json"
	recordsFile  = "packages.jsonl"
)

// Manifest describes an esearch index and how to interpret it.
type Manifest struct {
	DBVersion   int    `json:"db_version"`
	CreatedAt   string `json:"created_at"`
	Tree        string `json:"tree"`
	RecordsFile string `json:"records_file"`
}

// Record is one package row in packages.jsonl.
type Record struct {
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Masked          bool   `json:"masked"`
	LatestAvailable string `json:"latest_available"`
	LatestInstalled string `json:"latest_installed,omitempty"`
	DownloadSize    string `json:"download_size"`
	Homepage        string `json:"homepage"`
	Description     string `json:"description"`
	License         string `json:"license"`
}

// Category returns the part of FullName before the separator.
func (r Record) Category() string {
	cat, _, _ := strings.Cut(r.FullName, "/")
	return cat
}

// Installed reports whether any version of the package is installed.
func (r Record) Installed() bool {
	return r.LatestInstalled != ""
}

// Index is a loaded esearch index.
type Index struct {
	Manifest Manifest
	Records  []Record
}
