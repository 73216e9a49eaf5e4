package box3d

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const b3SettingsDebounce = 100 * time.Millisecond

// B3SettingsWatcher reloads a settings file whenever it changes on disk.
// Parsed settings arrive on Settings; read or parse failures arrive on Errors
// and leave the previous settings in place.
type B3SettingsWatcher struct {
	watcher  *fsnotify.Watcher
	filename string
	Settings chan B3Settings
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewB3SettingsWatcher(filename string) (*B3SettingsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files by rename, which drops a
	// watch placed on the file itself.
	if err := w.Add(filepath.Dir(filename)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &B3SettingsWatcher{
		watcher:  w,
		filename: filepath.Clean(filename),
		Settings: make(chan B3Settings, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *B3SettingsWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Settings)
		close(w.Errors)
	})
	return err
}

// Events for the file restart the debounce timer and the file is read once
// it has been quiet for b3SettingsDebounce, so a save made of a truncate and
// several writes is only parsed when complete.
func (w *B3SettingsWatcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.filename {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(b3SettingsDebounce)
			} else {
				timer.Reset(b3SettingsDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			settings, err := LoadB3Settings(w.filename)
			if err != nil {
				w.sendError(err)
				continue
			}
			w.sendSettings(settings)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		case <-w.closeCh:
			return
		}
	}
}

// Only the newest settings matter, so a pending unread value is replaced.
func (w *B3SettingsWatcher) sendSettings(settings B3Settings) {
	for {
		select {
		case w.Settings <- settings:
			return
		case <-w.closeCh:
			return
		default:
		}
		select {
		case <-w.Settings:
		default:
		}
	}
}

func (w *B3SettingsWatcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
