package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/sync/singleflight"
)

// Unavailable replaces the feed body when loading fails.
const Unavailable = "Unable to load timeline. Please try again later."

const maxFeedBytes = 1 << 20

var ErrEmpty = errors.New("feed: empty feed")

// Source produces the feed as markdown.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed: %s returned %s", s.URL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// StaticSource is a fixed feed body.
type StaticSource string

func (s StaticSource) Fetch(context.Context) (string, error) { return string(s), nil }

// NewSource picks a source from a config value: an http(s) URL, a file
// path, or nothing for a placeholder naming the handle.
func NewSource(location, handle string) Source {
	switch {
	case location == "":
		return StaticSource(placeholder(handle))
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return HTTPSource{URL: location}
	default:
		return FileSource{Path: location}
	}
}

func placeholder(handle string) string {
	return fmt.Sprintf("# @%s\n\nPosts by @%s\n\n_No feed source configured._\n", handle, handle)
}

// Loader fetches the feed at most once. Concurrent callers share one
// in-flight fetch; a success is kept, a failure is not, so the next call
// tries again.
type Loader struct {
	src   Source
	group singleflight.Group

	mu      sync.Mutex
	content string
	loaded  bool
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

func (l *Loader) Load(ctx context.Context) (string, error) {
	l.mu.Lock()
	if l.loaded {
		content := l.content
		l.mu.Unlock()
		return content, nil
	}
	l.mu.Unlock()

	v, err, _ := l.group.Do("feed", func() (any, error) {
		body, err := l.src.Fetch(ctx)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(body) == "" {
			return "", ErrEmpty
		}
		l.mu.Lock()
		l.content, l.loaded = body, true
		l.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return "", fmt.Errorf("feed: load: %w", err)
	}
	return v.(string), nil
}

func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Render turns feed markdown into terminal output. style is a glamour
// standard style name such as "dark", "light" or "notty".
func Render(markdown string, width int, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("feed: renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("feed: render: %w", err)
	}
	return out, nil
}
