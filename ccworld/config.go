package ccworld

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// classTableFile is the on-disk YAML shape of a ClassTable.
type classTableFile struct {
	Classes map[string]classSpecFile `yaml:"classes"`
}

type classSpecFile struct {
	Ignores []string `yaml:"ignores"`
	Enter   []string `yaml:"enter"`
	Exit    []string `yaml:"exit"`
	Pre     []string `yaml:"pre"`
	Post    []string `yaml:"post"`
}

// peerSetFromFile interprets a YAML string list as a PeerSet: a single
// entry of "All" (case-insensitive) means AllClasses(), an entry of
// "All" followed by names prefixed with "!" means AllExcept(...), and a
// plain list is Classes(...). An absent (nil) list leaves the PeerSet at
// its zero value so the registry's implicit/explicit default applies.
func peerSetFromFile(names []string) PeerSet {
	if names == nil {
		return PeerSet{}
	}
	var except, plain []string
	all := false
	for _, n := range names {
		switch {
		case strings.EqualFold(n, "All"):
			all = true
		case strings.HasPrefix(n, "!"):
			except = append(except, strings.TrimPrefix(n, "!"))
		default:
			plain = append(plain, n)
		}
	}
	if all {
		return AllExcept(except...)
	}
	return Classes(plain...)
}

// LoadClassTableFile reads and parses a collision class table from a YAML
// file, in the declarative-config idiom the rest of this
// project's asset pipeline uses.
func LoadClassTableFile(path string) (ClassTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ccworld: load %s: %w", path, err)
	}
	var file classTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %s: %w", ErrInvalidClassTable, path, err)
	}
	table := make(ClassTable, len(file.Classes))
	for name, spec := range file.Classes {
		table[name] = ClassSpec{
			Ignores: peerSetFromFile(spec.Ignores),
			Enter:   peerSetFromFile(spec.Enter),
			Exit:    peerSetFromFile(spec.Exit),
			Pre:     peerSetFromFile(spec.Pre),
			Post:    peerSetFromFile(spec.Post),
		}
	}
	if len(table) == 0 {
		return nil, ErrInvalidClassTable
	}
	return table, nil
}

// ConfigWatcher reloads a class table file whenever it changes on disk,
// grounded on this project's asset hot-reload watcher.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(ClassTable)
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

// WatchClassTableFile loads path once, invoking onChange with the parsed
// table, then watches path for further writes and invokes onChange again
// on each reload. fsnotify watches the containing directory rather than
// the file itself (editors commonly rename-swap on save, which drops a
// direct file watch), filtering events back down to path.
func WatchClassTableFile(path string, onChange func(ClassTable)) (*ConfigWatcher, error) {
	table, err := LoadClassTableFile(path)
	if err != nil {
		return nil, err
	}
	onChange(table)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		watcher:  fw,
		path:     path,
		onChange: onChange,
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

func (w *ConfigWatcher) run() {
	target, _ := filepath.Abs(w.path)
	last := time.Time{}
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != target {
				continue
			}
			if now := time.Now(); now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = time.Now()
			table, err := LoadClassTableFile(w.path)
			if err != nil {
				w.pushErr(err)
				continue
			}
			w.onChange(table)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.pushErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *ConfigWatcher) pushErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

// Close stops the watcher goroutine. Safe to call more than once.
func (w *ConfigWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		close(w.Errors)
	})
	return err
}
