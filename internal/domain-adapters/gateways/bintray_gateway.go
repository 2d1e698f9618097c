// Package gateways contains adapters for external collaborators: the
// artifact registry HTTP API and the npm command-line client.
package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ochairo/decant/internal/domain/entities"
)

// DefaultBintrayURL is the registry endpoint used when no URL is
// configured.
const DefaultBintrayURL = "https://api.bintray.com"

// requestTimeout bounds every registry call. Generous because version
// content uploads can be large. The pipeline treats expiry like any other
// request failure: abort, no retry.
const requestTimeout = 5 * time.Minute

// BintrayGateway implements the artifact registry API using the standard
// HTTP client with basic auth.
type BintrayGateway struct {
	client  *http.Client
	baseURL string
	user    string
	apiKey  string
}

// NewBintrayGateway creates a registry gateway. An empty baseURL selects
// the default endpoint.
func NewBintrayGateway(baseURL, user, apiKey string) *BintrayGateway {
	if baseURL == "" {
		baseURL = DefaultBintrayURL
	}
	return &BintrayGateway{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		apiKey:  apiKey,
	}
}

// PackageExists probes the package resource with a HEAD request.
// 200/201 means present, 404 means absent, anything else is an error.
func (g *BintrayGateway) PackageExists(ctx context.Context, pkg *entities.Package) (bool, error) {
	return g.exists(ctx, "package", packagePath(pkg))
}

// CreatePackage creates the package resource, then posts its attributes
// when the descriptor carries any.
func (g *BintrayGateway) CreatePackage(ctx context.Context, pkg *entities.Package) error {
	path := fmt.Sprintf("/packages/%s/%s",
		url.PathEscape(pkg.Subject), url.PathEscape(pkg.Repo))
	if err := g.postJSON(ctx, path, packagePayload(pkg)); err != nil {
		return fmt.Errorf("failed to create package %s: %w", pkg.Name, err)
	}

	if len(pkg.Attributes) > 0 {
		if err := g.postJSON(ctx, packagePath(pkg)+"/attributes", pkg.Attributes); err != nil {
			return fmt.Errorf("failed to set package attributes: %w", err)
		}
	}
	return nil
}

// VersionExists probes the version resource with a HEAD request.
func (g *BintrayGateway) VersionExists(ctx context.Context, pkg *entities.Package, ver *entities.Version) (bool, error) {
	return g.exists(ctx, "version", versionPath(pkg, ver))
}

// CreateVersion creates the version resource, then posts its attributes
// when the descriptor carries any.
func (g *BintrayGateway) CreateVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version) error {
	if err := g.postJSON(ctx, packagePath(pkg)+"/versions", versionPayload(ver)); err != nil {
		return fmt.Errorf("failed to create version %s: %w", ver.Name, err)
	}

	if len(ver.Attributes) > 0 {
		if err := g.postJSON(ctx, versionPath(pkg, ver)+"/attributes", ver.Attributes); err != nil {
			return fmt.Errorf("failed to set version attributes: %w", err)
		}
	}
	return nil
}

// UploadContent PUTs one file's bytes to the version content path, with
// the upload's matrix params appended as semicolon-joined path segments.
func (g *BintrayGateway) UploadContent(ctx context.Context, pkg *entities.Package, ver *entities.Version, up entities.Upload) error {
	//nolint:gosec // G304: source path comes from the resolved upload manifest
	f, err := os.Open(up.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", up.SourcePath, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", up.SourcePath, err)
	}

	path := fmt.Sprintf("/content/%s/%s/%s/%s/%s%s",
		url.PathEscape(pkg.Subject),
		url.PathEscape(pkg.Repo),
		url.PathEscape(pkg.Name),
		url.PathEscape(ver.Name),
		escapeTarget(up.TargetPath),
		matrixSuffix(up.MatrixParams))

	req, err := g.newRequest(ctx, http.MethodPut, path, f)
	if err != nil {
		return err
	}
	req.ContentLength = info.Size()

	return g.doMutating(req)
}

// SignVersion asks the registry to GPG-sign the version. The passphrase
// is sent in the JSON body when configured, otherwise the body is empty.
func (g *BintrayGateway) SignVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version, passphrase string) error {
	path := fmt.Sprintf("/gpg/%s/%s/%s/versions/%s",
		url.PathEscape(pkg.Subject),
		url.PathEscape(pkg.Repo),
		url.PathEscape(pkg.Name),
		url.PathEscape(ver.Name))

	if passphrase == "" {
		return g.postJSON(ctx, path, nil)
	}
	return g.postJSON(ctx, path, map[string]string{"passphrase": passphrase})
}

// PublishVersion makes the uploaded content publicly visible.
func (g *BintrayGateway) PublishVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version) error {
	path := fmt.Sprintf("/content/%s/%s/%s/%s/publish",
		url.PathEscape(pkg.Subject),
		url.PathEscape(pkg.Repo),
		url.PathEscape(pkg.Name),
		url.PathEscape(ver.Name))
	return g.postJSON(ctx, path, nil)
}

func (g *BintrayGateway) exists(ctx context.Context, kind, path string) (bool, error) {
	req, err := g.newRequest(ctx, http.MethodHead, path, nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("existence check for %s failed: %w", kind, err)
	}
	//nolint:errcheck // HEAD responses carry no body
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &entities.UnexpectedStatusError{Kind: kind, Code: resp.StatusCode}
	}
}

// postJSON POSTs a JSON payload (or an empty body when payload is nil)
// and enforces a 2xx answer.
func (g *BintrayGateway) postJSON(ctx context.Context, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := g.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return g.doMutating(req)
}

func (g *BintrayGateway) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.user, g.apiKey)
	return req, nil
}

// doMutating executes a state-changing request. Any non-2xx status aborts
// the deploy; there is no retry and no rollback of earlier calls.
func (g *BintrayGateway) doMutating(req *http.Request) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &entities.RequestError{
			Method: req.Method,
			URL:    req.URL.String(),
			Code:   resp.StatusCode,
		}
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func packagePath(pkg *entities.Package) string {
	return fmt.Sprintf("/packages/%s/%s/%s",
		url.PathEscape(pkg.Subject), url.PathEscape(pkg.Repo), url.PathEscape(pkg.Name))
}

func versionPath(pkg *entities.Package, ver *entities.Version) string {
	return packagePath(pkg) + "/versions/" + url.PathEscape(ver.Name)
}

// packagePayload copies the allow-listed creation fields, dropping unset
// ones. Fields outside the allow-list never reach the registry.
func packagePayload(pkg *entities.Package) map[string]any {
	payload := map[string]any{"name": pkg.Name}
	if pkg.Desc != "" {
		payload["desc"] = pkg.Desc
	}
	if len(pkg.Licenses) > 0 {
		payload["licenses"] = pkg.Licenses
	}
	if len(pkg.Labels) > 0 {
		payload["labels"] = pkg.Labels
	}
	if pkg.VCSURL != "" {
		payload["vcs_url"] = pkg.VCSURL
	}
	if pkg.WebsiteURL != "" {
		payload["website_url"] = pkg.WebsiteURL
	}
	if pkg.IssueTrackerURL != "" {
		payload["issue_tracker_url"] = pkg.IssueTrackerURL
	}
	if pkg.PublicDownloadNumbers != nil {
		payload["public_download_numbers"] = *pkg.PublicDownloadNumbers
	}
	if pkg.PublicStats != nil {
		payload["public_stats"] = *pkg.PublicStats
	}
	return payload
}

// versionPayload copies the allow-listed version creation fields.
func versionPayload(ver *entities.Version) map[string]any {
	payload := map[string]any{"name": ver.Name}
	if ver.Desc != "" {
		payload["desc"] = ver.Desc
	}
	if ver.Released != "" {
		payload["released"] = ver.Released
	}
	if ver.VCSTag != "" {
		payload["vcs_tag"] = ver.VCSTag
	}
	if ver.GithubReleaseNotesFile != "" {
		payload["github_release_notes_file"] = ver.GithubReleaseNotesFile
	}
	if ver.GithubUseTagReleaseNotes != nil {
		payload["github_use_tag_release_notes"] = *ver.GithubUseTagReleaseNotes
	}
	return payload
}

// escapeTarget escapes each segment of the remote target path while
// preserving its directory structure.
func escapeTarget(target string) string {
	segments := strings.Split(target, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// matrixSuffix renders matrix params as ;key=value segments, sorted by
// key so the request path is deterministic.
func matrixSuffix(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(";")
		b.WriteString(url.PathEscape(k))
		b.WriteString("=")
		b.WriteString(url.PathEscape(params[k]))
	}
	return b.String()
}
