package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the workspace root and re-parses source files that
// changed on disk. Documents held open by the editor are left alone.
type FileWatcher struct {
	workspace    *Workspace
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	isOpen       func(path string) bool
}

func NewFileWatcher(w *Workspace, isOpen func(path string) bool) *FileWatcher {
	if isOpen == nil {
		isOpen = func(string) bool { return false }
	}
	return &FileWatcher{
		workspace:    w,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
		isOpen:       isOpen,
	}
}

func (fw *FileWatcher) Start() {
	go fw.run()
}

func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
}

func (fw *FileWatcher) run() {
	ticker := time.NewTicker(fw.pollInterval)
	defer ticker.Stop()

	fw.scan()

	for {
		select {
		case <-fw.stopCh:
			return
		case <-ticker.C:
			fw.scan()
		}
	}
}

func (fw *FileWatcher) scan() {
	proj := fw.workspace.Project()
	if proj == nil || len(proj.Extensions) == 0 {
		return
	}
	currentFiles := make(map[string]bool)

	filepath.WalkDir(fw.workspace.RootDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != fw.workspace.RootDir() && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !proj.Matches(path) {
			return nil
		}

		currentFiles[path] = true
		info, err := d.Info()
		if err != nil {
			return nil
		}

		lastMod, known := fw.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			fw.modTimes[path] = info.ModTime()
			if !fw.isOpen(path) {
				if err := fw.workspace.ScanFile(path); err != nil {
					log.Warningf("%s", err)
				}
			}
		}
		return nil
	})

	for path := range fw.modTimes {
		if !currentFiles[path] {
			delete(fw.modTimes, path)
			if !fw.isOpen(path) {
				fw.workspace.RemoveFile(path)
			}
		}
	}
}
