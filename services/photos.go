package services

import (
	"bytes"
	"context"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultThumbSize     = 600
	DefaultMaxPhotoLoads = 4
)

var supportedPhotoTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// PhotoFetch produces the raw bytes of one picked image.
type PhotoFetch func(ctx context.Context) ([]byte, error)

// BytesFetch wraps an in-memory buffer, e.g. a multipart upload.
func BytesFetch(data []byte) PhotoFetch {
	return func(context.Context) ([]byte, error) { return data, nil }
}

func FileFetch(path string) PhotoFetch {
	return func(context.Context) ([]byte, error) { return os.ReadFile(path) }
}

// DecodePhoto sniffs and decodes raw image bytes, shrinks the image to fit a
// maxSize square (no upscaling) and re-encodes it as PNG for the renderers.
func DecodePhoto(data []byte, maxSize int) (Photo, error) {
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), supportedPhotoTypes...) {
		return Photo{}, fmt.Errorf("%w: %s", ErrNoPhoto, mtype.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Photo{}, fmt.Errorf("%w: %v", ErrNoPhoto, err)
	}
	if maxSize > 0 {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return Photo{}, fmt.Errorf("encode photo: %w", err)
	}
	b := img.Bounds()
	return Photo{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// PhotoLoader attaches photos asynchronously. Each Load starts a new
// generation: the list is cleared, the previous generation's context is
// cancelled, and any of its results that still arrive are discarded.
// Successful photos are appended in completion order; failed ones are left out.
type PhotoLoader struct {
	logger    *zap.Logger
	thumbSize int
	limit     int

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	photos []Photo
}

func NewPhotoLoader(logger *zap.Logger, thumbSize, maxConcurrent int) *PhotoLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if thumbSize <= 0 {
		thumbSize = DefaultThumbSize
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxPhotoLoads
	}
	return &PhotoLoader{logger: logger, thumbSize: thumbSize, limit: maxConcurrent}
}

// Load replaces the photo list with the results of fetches. It returns
// immediately; use Wait to block until this generation settles.
func (l *PhotoLoader) Load(ctx context.Context, fetches []PhotoFetch) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	loadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.photos = nil
	l.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		var g errgroup.Group
		g.SetLimit(l.limit)
		for i, fetch := range fetches {
			g.Go(func() error {
				photo, err := l.loadOne(loadCtx, fetch)
				l.deliver(gen, i, photo, err)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (l *PhotoLoader) loadOne(ctx context.Context, fetch PhotoFetch) (Photo, error) {
	data, err := fetch(ctx)
	if err != nil {
		return Photo{}, err
	}
	return DecodePhoto(data, l.thumbSize)
}

func (l *PhotoLoader) deliver(gen uint64, index int, photo Photo, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		PhotoLoads.WithLabelValues("discarded").Inc()
		l.logger.Debug("photo_load: discarding superseded result", zap.Uint64("generation", gen), zap.Int("index", index))
		return
	}
	if err != nil {
		PhotoLoads.WithLabelValues("failed").Inc()
		l.logger.Warn("photo_load: dropping photo", zap.Int("index", index), zap.Error(err))
		return
	}
	PhotoLoads.WithLabelValues("ok").Inc()
	l.photos = append(l.photos, photo)
}

// Wait blocks until the current generation has settled.
func (l *PhotoLoader) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Photos returns a copy of the current list.
func (l *PhotoLoader) Photos() []Photo {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Photo, len(l.photos))
	copy(out, l.photos)
	return out
}

// LoadPhotos is the blocking form used by request handlers and the CLI.
func (l *PhotoLoader) LoadPhotos(ctx context.Context, fetches []PhotoFetch) []Photo {
	l.Load(ctx, fetches)
	l.Wait()
	return l.Photos()
}
