package entities

// Descriptor is the deploy descriptor loaded from JSON. It describes the
// package and version to publish and the local files to upload.
type Descriptor struct {
	Package Package         `json:"package"`
	Version Version         `json:"version"`
	Publish bool            `json:"publish"`
	Files   []ManifestEntry `json:"files"`
}

// Package identifies and describes a package in the artifact registry.
// Identity is (Subject, Repo, Name); the remaining fields only matter at
// creation time, an existing package is never updated.
type Package struct {
	Name                  string      `json:"name"`
	Subject               string      `json:"subject"`
	Repo                  string      `json:"repo"`
	Desc                  string      `json:"desc,omitempty"`
	Licenses              []string    `json:"licenses,omitempty"`
	Labels                []string    `json:"labels,omitempty"`
	VCSURL                string      `json:"vcs_url,omitempty"`
	WebsiteURL            string      `json:"website_url,omitempty"`
	IssueTrackerURL       string      `json:"issue_tracker_url,omitempty"`
	PublicDownloadNumbers *bool       `json:"public_download_numbers,omitempty"`
	PublicStats           *bool       `json:"public_stats,omitempty"`
	Attributes            []Attribute `json:"attributes,omitempty"`
}

// Version describes one version of a package. Identity is the package
// identity plus Name.
type Version struct {
	Name                     string      `json:"name"`
	Desc                     string      `json:"desc,omitempty"`
	Released                 string      `json:"released,omitempty"`
	VCSTag                   string      `json:"vcs_tag,omitempty"`
	GithubReleaseNotesFile   string      `json:"github_release_notes_file,omitempty"`
	GithubUseTagReleaseNotes *bool       `json:"github_use_tag_release_notes,omitempty"`
	Attributes               []Attribute `json:"attributes,omitempty"`
	GPGSign                  bool        `json:"gpgSign,omitempty"`
}

// Attribute is a registry metadata attribute attached to a package or
// version.
type Attribute struct {
	Name   string `json:"name"`
	Values []any  `json:"values"`
	Type   string `json:"type,omitempty"`
}

// ManifestEntry is one files[] item of the descriptor: a regex mapping
// from local files to remote upload targets.
type ManifestEntry struct {
	IncludePattern string            `json:"includePattern"`
	ExcludePattern string            `json:"excludePattern,omitempty"`
	UploadPattern  string            `json:"uploadPattern"`
	MatrixParams   map[string]string `json:"matrixParams,omitempty"`
}

// Upload is one resolved file transfer: a local source, the remote target
// path produced from the upload pattern, and the matrix params carried
// through from the manifest entry.
type Upload struct {
	SourcePath   string
	TargetPath   string
	MatrixParams map[string]string
}
