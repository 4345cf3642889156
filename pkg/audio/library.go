package audio

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/borgmon/alarm-clock/pkg/models"
	"go.uber.org/zap"
)

// Library loads catalog sounds, decoding sample files from fsys and
// synthesizing patterns. Decoded sounds are cached.
type Library struct {
	fsys fs.FS
	log  *zap.SugaredLogger

	mu    sync.Mutex
	cache map[models.SoundKey]*Sound
}

// NewLibrary creates a library reading sample files from fsys. fsys may be
// nil, in which case only synthesized sounds are available.
func NewLibrary(fsys fs.FS, log *zap.SugaredLogger) *Library {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Library{
		fsys:  fsys,
		log:   log,
		cache: make(map[models.SoundKey]*Sound),
	}
}

// Load returns the decoded sound for key.
func (l *Library) Load(ctx context.Context, key models.SoundKey) (*Sound, error) {
	l.mu.Lock()
	snd, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return snd, nil
	}

	entry, ok := models.LookupSound(key)
	if !ok {
		return nil, fmt.Errorf("unknown sound %q", key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pcm []byte
	var err error
	if entry.Pattern != models.PatternNone {
		pcm, err = Synthesize(entry.Pattern)
	} else {
		pcm, err = l.readFile(entry.File)
	}
	if err != nil {
		return nil, fmt.Errorf("load sound %q: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snd = &Sound{Key: key, PCM: pcm}
	l.log.Debugw("Sound loaded", "sound", key, "duration", snd.Duration())

	l.mu.Lock()
	l.cache[key] = snd
	l.mu.Unlock()
	return snd, nil
}

// Preload decodes every catalog sound in carousel order, logging
// failures. It returns when all loads finished or ctx is done.
func (l *Library) Preload(ctx context.Context) {
	for _, s := range models.Sounds {
		if ctx.Err() != nil {
			return
		}
		if _, err := l.Load(ctx, s.Key); err != nil {
			l.log.Warnw("Failed to preload sound", "sound", s.Key, "error", err)
		}
	}
}

func (l *Library) readFile(name string) ([]byte, error) {
	if l.fsys == nil {
		return nil, fs.ErrNotExist
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}
	return decodeWAV(data)
}
