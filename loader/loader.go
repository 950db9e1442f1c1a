// Package loader preparses source files and follows their load and attach
// directives.
//
// A `.sage` file named by a directive is spliced in place of the directive
// line, recursively; any other file becomes a load("path") call for the
// host to run. Each file is spliced at most once per run. Attached files
// are also remembered with their modification time so that Watch can
// report edits.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rubiojr/sagepp/preprocess"
	"github.com/rubiojr/sagepp/scanner"
	"github.com/tliron/commonlog"
)

// SourceExt marks files that are spliced rather than handed to the host.
const SourceExt = ".sage"

// Options configures a Loader.
type Options struct {
	Preparse preprocess.Options
	// Magic enables load and attach directives. When false directive lines
	// are preparsed like any other line.
	Magic bool
}

type stamp struct {
	mod  time.Time
	size int64
}

// Loader preparses files. It is safe for use by multiple goroutines.
type Loader struct {
	opts Options
	log  commonlog.Logger

	mu       sync.Mutex
	attached map[string]stamp
}

// New returns a Loader.
func New(opts Options) *Loader {
	return &Loader{
		opts:     opts,
		log:      commonlog.GetLogger("sagepp.loader"),
		attached: map[string]stamp{},
	}
}

// Load reads and preparses the file at path.
func (l *Loader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return l.Source(path, string(data))
}

// Source preparses src, which was read from name. Relative directive paths
// are resolved against name's directory; name may be empty for text that
// did not come from a file.
func (l *Loader) Source(name, src string) (string, error) {
	expanded, err := l.Expand(name, src)
	if err != nil {
		return "", err
	}
	return preprocess.File(expanded, l.opts.Preparse)
}

// Expand replaces directive lines in src with what they load, without
// preparsing anything.
func (l *Loader) Expand(name, src string) (string, error) {
	if !l.opts.Magic {
		return src, nil
	}
	loaded := map[string]bool{}
	if name != "" {
		loaded[absPath(name)] = true
	}
	var out []string
	if err := l.expand(name, src, loaded, &out); err != nil {
		return "", err
	}
	return strings.Join(out, "\n"), nil
}

// expand splices src, read from name, into out. A malformed directive
// stops the expansion.
func (l *Loader) expand(name, src string, loaded map[string]bool, out *[]string) error {
	dir, label := filepath.Dir(name), name
	if label == "" {
		label = "<input>"
	}
	src = strings.TrimSuffix(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	var st scanner.State
	for i, line := range strings.Split(src, "\n") {
		if !st.Open() {
			d, ok, err := ParseDirective(strings.TrimRight(line, " \t"))
			if err != nil {
				return fmt.Errorf("%s:%d: %w", label, i+1, err)
			}
			if ok {
				for _, p := range d.Paths {
					if err := l.directive(dir, d.Kind, p, loaded, out); err != nil {
						return err
					}
				}
				continue
			}
		}
		_, _, st = scanner.Strip(line+"\n", st)
		*out = append(*out, line)
	}
	return nil
}

// directive handles one path named by a load or attach line.
func (l *Loader) directive(dir, kind, name string, loaded map[string]bool, out *[]string) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if kind == "attach" {
		if err := l.Attach(path); err != nil {
			l.log.Warningf("cannot attach %s: %s", path, err)
		}
	}

	key := absPath(path)
	if loaded[key] {
		l.log.Debugf("skipping %s: already loaded", path)
		return nil
	}
	loaded[key] = true

	if filepath.Ext(path) != SourceExt {
		*out = append(*out, `load("`+name+`")`)
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Warningf("file %s not found, so skipping load", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	l.log.Infof("loading %s", path)
	return l.expand(path, string(data), loaded, out)
}

// Attach records path so that later edits are reported by Changed and
// Watch. Attaching a file twice keeps the first record.
func (l *Loader) Attach(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	key := absPath(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.attached[key]; !ok {
		l.attached[key] = stamp{mod: info.ModTime(), size: info.Size()}
		l.log.Infof("attached %s", key)
	}
	return nil
}

// Attached returns the absolute paths of the attached files, sorted.
func (l *Loader) Attached() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	paths := make([]string, 0, len(l.attached))
	for p := range l.attached {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Changed returns the attached files modified since they were attached or
// last reported, and records their new state. A file that disappeared is
// not reported.
func (l *Loader) Changed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var changed []string
	for p, old := range l.attached {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		now := stamp{mod: info.ModTime(), size: info.Size()}
		if !now.mod.Equal(old.mod) || now.size != old.size {
			l.attached[p] = now
			changed = append(changed, p)
		}
	}
	sort.Strings(changed)
	return changed
}

// Detach forgets every attached file.
func (l *Loader) Detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.attached)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
