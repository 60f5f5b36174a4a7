package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/lumen/engine/core"
)

type AssetType int

const (
	AssetTypeNone AssetType = iota
	AssetTypeShader
	AssetTypeImage
	AssetTypeFont
	AssetTypeMaterial
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeShader:
		return "shader"
	case AssetTypeImage:
		return "image"
	case AssetTypeFont:
		return "font"
	case AssetTypeMaterial:
		return "material"
	}
	return "none"
}

type AssetInfo struct {
	Path         string
	Type         AssetType
	LastModified time.Time
}

/**
 * @brief Watcher indexes asset files under a set of directories and records
 * which of them change on disk. Events are collected on a background
 * goroutine, the render thread drains them with Changed and does any GPU
 * work itself.
 */
type Watcher struct {
	assets map[string]AssetInfo
	dirty  map[string]struct{}

	mutex sync.Mutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewWatcher() (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		assets:   make(map[string]AssetInfo),
		dirty:    make(map[string]struct{}),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.start()
	return w, nil
}

// Watch indexes every asset under dir and starts watching it and its sub-directories.
func (w *Watcher) Watch(dir string) error {
	if w.isClosed {
		return errors.New("asset watcher already closed")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	return w.watchRecursive(abs)
}

// Changed returns the asset paths modified since the previous call, sorted. Paths are absolute.
func (w *Watcher) Changed() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	paths := make([]string, 0, len(w.dirty))
	for p := range w.dirty {
		paths = append(paths, p)
	}
	w.dirty = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

// Lookup returns the indexed entry for path, which may be relative.
func (w *Watcher) Lookup(path string) (AssetInfo, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return AssetInfo{}, false
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	info, ok := w.assets[abs]
	return info, ok
}

// Assets lists the indexed assets of type t, sorted by path. AssetTypeNone lists all of them.
func (w *Watcher) Assets(t AssetType) []AssetInfo {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	out := make([]AssetInfo, 0, len(w.assets))
	for _, a := range w.assets {
		if t == AssetTypeNone || a.Type == t {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (w *Watcher) Close() error {
	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	<-w.stopped
	return nil
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := w.watchRecursive(e.Name); err != nil {
						core.LogWarn("could not watch new directory %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileEvent(e.Name, true)
			}
			// a removed path cannot be stat'ed, drop it from the index either way
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.removeAsset(e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds every directory under root to the watch list and indexes its files.
func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		w.handleFileEvent(walkPath, false)
		return nil
	})
}

func (w *Watcher) handleFileEvent(path string, modified bool) {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.assets[path] = AssetInfo{
		Path:         path,
		Type:         assetType,
		LastModified: time.Now(),
	}
	if modified {
		w.dirty[path] = struct{}{}
	}
}

func (w *Watcher) removeAsset(path string) {
	path = filepath.Clean(path)
	w.mutex.Lock()
	defer w.mutex.Unlock()
	delete(w.assets, path)
	delete(w.dirty, path)
}

func determineAssetType(path string) AssetType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glsl", ".vert", ".frag":
		return AssetTypeShader
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return AssetTypeImage
	case ".ttf", ".otf", ".fnt":
		return AssetTypeFont
	case ".toml":
		return AssetTypeMaterial
	default:
		return AssetTypeNone
	}
}
