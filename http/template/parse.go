package template

import (
	"fmt"
	html "html/template"
	"io/fs"
	"os"
	"path"
	"sync"
)

// StatusTmpl renders the auth-status element and raises error flashes as alerts.
// Pages include it with {{ template "status" . }}.
const StatusTmpl = "tmpl/status.tmpl"

// ErrTmpl renders when nothing else can.
const ErrTmpl = "tmpl/error.tmpl"

// Parser is the interface for parsing HTML templates with the functions provided.
type Parser interface {
	AddFn(name string, fn any)
	Parse(fps ...string) (*html.Template, error)
}

// Parse implements Parser with a focus on utilizing embedded HTML templates through fs.FS.
type Parse struct {
	fs  fs.FS
	mu  sync.RWMutex
	fns html.FuncMap
}

// NewParser constructs a *Parse with the provided functional options.
// Files are looked up in the fs.FS set by WithFS, the working directory otherwise,
// before falling back to the templates in this package.
func NewParser(opts ...ParserOptFn) *Parse {
	p := &Parse{fns: make(html.FuncMap)}
	for _, opt := range opts {
		opt(p)
	}

	userFS := p.fs
	if userFS == nil {
		userFS = os.DirFS(".")
	}

	p.fs = &mergeFS{
		cache:   make(map[string]func(string) (fs.File, error)),
		userDir: userFS,
		pkgDir:  pkgFS,
	}

	return p
}

// Parse parses files found in the *Parse.fs with those functions provided previously.
// The first file names the returned template.
func (p *Parse) Parse(fps ...string) (*html.Template, error) {
	files := make([]string, 0, len(fps))
	for _, fp := range fps {
		if fp != "" {
			files = append(files, fp)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	return html.New(path.Base(files[0])).Funcs(p.fns).ParseFS(p.fs, files...)
}
