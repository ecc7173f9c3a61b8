package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"
)

// Entry is one item of a contents API directory listing
type Entry struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Size        int64   `json:"size"`
	DownloadURL *string `json:"download_url"`
}

// FakeRepo serves a repository over a GitHub-style contents API.
// Listings live under /repos/<owner>/<repo>/contents/ and raw files under
// /raw/<owner>/<repo>/.
type FakeRepo struct {
	*httptest.Server
	Owner string
	Repo  string

	mu             sync.Mutex
	files          map[string]string
	extra          map[string][]Entry
	listingStatus  map[string]int
	downloadStatus map[string]int
	listed         []string
	downloaded     []string
	apiAuth        []string
	downloadAuth   []string
	refs           []string
}

// NewFakeRepo starts a fake contents API; it is closed on test cleanup
func NewFakeRepo(t *testing.T, owner, repo string) *FakeRepo {
	t.Helper()

	f := &FakeRepo{
		Owner:          owner,
		Repo:           repo,
		files:          make(map[string]string),
		extra:          make(map[string][]Entry),
		listingStatus:  make(map[string]int),
		downloadStatus: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/"+owner+"/"+repo+"/contents/", f.serveContents)
	mux.HandleFunc("/raw/"+owner+"/"+repo+"/", f.serveRaw)
	f.Server = httptest.NewServer(mux)

	t.Cleanup(f.Server.Close)
	return f
}

// APIURL returns the API root to configure clients with
func (f *FakeRepo) APIURL() string {
	return f.URL + "/"
}

// RepoURL returns a browsable repository URL for the fake
func (f *FakeRepo) RepoURL() string {
	return "https://github.com/" + f.Owner + "/" + f.Repo
}

// AddFile adds a file; its parent directories appear implicitly
func (f *FakeRepo) AddFile(filePath, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[filePath] = content
}

// AddEntry appends a raw entry to the listing of dir
func (f *FakeRepo) AddEntry(dir string, e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extra[dir] = append(f.extra[dir], e)
}

// SetListingStatus makes listing dir fail with status
func (f *FakeRepo) SetListingStatus(dir string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listingStatus[dir] = status
}

// SetDownloadStatus makes downloading filePath fail with status
func (f *FakeRepo) SetDownloadStatus(filePath string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadStatus[filePath] = status
}

// DownloadURL returns the raw URL served for filePath
func (f *FakeRepo) DownloadURL(filePath string) string {
	return f.URL + "/raw/" + f.Owner + "/" + f.Repo + "/" + filePath
}

// Listed returns the directory paths listed so far, in request order
func (f *FakeRepo) Listed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listed...)
}

// Downloaded returns the file paths downloaded so far, in request order
func (f *FakeRepo) Downloaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.downloaded...)
}

// APIAuthHeaders returns the Authorization header of every listing request
func (f *FakeRepo) APIAuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.apiAuth...)
}

// DownloadAuthHeaders returns the Authorization header of every download
func (f *FakeRepo) DownloadAuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.downloadAuth...)
}

// Refs returns the ref query parameter of every listing request
func (f *FakeRepo) Refs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.refs...)
}

func (f *FakeRepo) serveContents(w http.ResponseWriter, r *http.Request) {
	prefix := "/repos/" + f.Owner + "/" + f.Repo + "/contents/"
	dir := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")

	f.mu.Lock()
	defer f.mu.Unlock()

	f.listed = append(f.listed, dir)
	f.apiAuth = append(f.apiAuth, r.Header.Get("Authorization"))
	f.refs = append(f.refs, r.URL.Query().Get("ref"))

	if status, ok := f.listingStatus[dir]; ok {
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}

	if content, ok := f.files[dir]; ok {
		writeJSON(w, http.StatusOK, f.fileEntry(dir, content))
		return
	}

	entries, ok := f.listing(dir)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (f *FakeRepo) serveRaw(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(r.URL.Path, "/raw/"+f.Owner+"/"+f.Repo+"/")

	f.mu.Lock()
	defer f.mu.Unlock()

	f.downloaded = append(f.downloaded, filePath)
	f.downloadAuth = append(f.downloadAuth, r.Header.Get("Authorization"))

	if status, ok := f.downloadStatus[filePath]; ok {
		w.WriteHeader(status)
		return
	}

	content, ok := f.files[filePath]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(content))
}

// listing builds the immediate children of dir; callers hold f.mu
func (f *FakeRepo) listing(dir string) ([]Entry, bool) {
	found := dir == ""
	seenDirs := make(map[string]bool)
	var entries []Entry

	for filePath, content := range f.files {
		rel := filePath
		if dir != "" {
			if !strings.HasPrefix(filePath, dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(filePath, dir+"/")
		}
		found = true

		name, _, nested := strings.Cut(rel, "/")
		if nested {
			if !seenDirs[name] {
				seenDirs[name] = true
				entries = append(entries, Entry{Type: "dir", Name: name, Path: path.Join(dir, name)})
			}
			continue
		}
		entries = append(entries, f.fileEntry(filePath, content))
	}

	if extra, ok := f.extra[dir]; ok {
		found = true
		entries = append(entries, extra...)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, found
}

func (f *FakeRepo) fileEntry(filePath, content string) Entry {
	downloadURL := f.DownloadURL(filePath)
	return Entry{
		Type:        "file",
		Name:        path.Base(filePath),
		Path:        filePath,
		Size:        int64(len(content)),
		DownloadURL: &downloadURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
