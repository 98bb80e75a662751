// Package engine ties the mask store, view transform, gesture recognizer
// and format adapter into one editing session per open image.
//
// A Session is single-goroutine by contract: every mutation happens on the
// goroutine that feeds it pointer and keyboard events, and no operation
// blocks. The windowing chrome calls the render accessors (Masks, View,
// CurrentPolygon, Overlay) to draw; the engine draws nothing itself.
package engine

import (
	"fmt"
	"image"

	"github.com/go-cellseg/cellseg/pkg/config"
	"github.com/go-cellseg/cellseg/pkg/errors"
	"github.com/go-cellseg/cellseg/pkg/gestures"
	"github.com/go-cellseg/cellseg/pkg/graphics"
	"github.com/go-cellseg/cellseg/pkg/imageio"
	"github.com/go-cellseg/cellseg/pkg/mask"
	"github.com/go-cellseg/cellseg/pkg/maskfile"
	"github.com/go-cellseg/cellseg/pkg/palette"
	"github.com/go-cellseg/cellseg/pkg/raster"
	"github.com/go-cellseg/cellseg/pkg/viewport"
)

// Persister abstracts mask file persistence so tests can substitute an
// in-memory store. The default implementation is pkg/maskfile.
type Persister interface {
	ResolvePath(imagePath string) string
	Load(path string) (*mask.Grid, error)
	Save(path string, g *mask.Grid) error
}

type filePersister struct{}

func (filePersister) ResolvePath(imagePath string) string { return maskfile.ResolvePath(imagePath) }
func (filePersister) Load(path string) (*mask.Grid, error) {
	return maskfile.Load(path)
}
func (filePersister) Save(path string, g *mask.Grid) error { return maskfile.Save(path, g) }

// Session is one image's editing state.
type Session struct {
	cfg       *config.Resolved
	persister Persister

	img      *imageio.Image
	store    *mask.Store
	view     *viewport.Transform
	rec      *gestures.Recognizer
	maskPath string

	siblings     []string
	siblingIndex int
}

// New creates an empty session. Pass nil to use the default configuration.
func New(cfg *config.Resolved) *Session {
	return NewWithPersister(cfg, filePersister{})
}

// NewWithPersister creates a session with a custom persistence backend.
func NewWithPersister(cfg *config.Resolved, p Persister) *Session {
	if cfg == nil {
		cfg = config.Defaults()
	}
	s := &Session{cfg: cfg, persister: p, siblingIndex: -1}
	s.view = viewport.NewWithBounds(cfg.ZoomMin, cfg.ZoomMax)
	s.rec = gestures.NewRecognizer(s, s.view, gestures.Config{
		MinVertexSpacing: cfg.MinVertexSpacing,
		ClickThreshold:   cfg.ClickThreshold,
		DragZoomRate:     cfg.DragZoomRate,
		WheelFactor:      cfg.WheelFactor,
	})
	return s
}

// LoadImage switches the session to the image at path. The current masks
// are saved first; the mask store, undo history and view transform are
// replaced wholesale. Refused while a gesture is in progress.
//
// A mask file that cannot be read, or whose dimensions disagree with the
// image, degrades to an empty mask array with a reported warning; the file
// on disk is left untouched.
func (s *Session) LoadImage(path string) error {
	const op = "engine.LoadImage"

	if s.rec.Active() {
		return errors.E(op, errors.KindState,
			fmt.Errorf("cannot switch images during a %s gesture", s.rec.State()))
	}

	s.saveMasks()

	img, err := imageio.Load(path)
	if err != nil {
		return err
	}

	s.img = img
	s.store = mask.NewStore(img.Width, img.Height, s.cfg.UndoDepth)
	s.maskPath = s.persister.ResolvePath(path)
	s.view.Reset()

	if g, err := s.persister.Load(s.maskPath); err != nil {
		report(op, errors.KindFormat, err)
	} else if g != nil {
		if g.Width() == img.Width && g.Height() == img.Height {
			s.store.ReplaceAll(g)
		} else {
			errors.Report(errors.E(op, errors.KindFormat,
				fmt.Errorf("mask shape %dx%d does not match image %dx%d",
					g.Width(), g.Height(), img.Width, img.Height)))
		}
	}

	if siblings, index, err := imageio.Siblings(path); err != nil {
		report(op, errors.KindIO, err)
	} else {
		s.siblings = siblings
		s.siblingIndex = index
	}
	return nil
}

// NextImage loads the next sibling image, saving first. Returns false at
// the end of the directory or when no image is loaded.
func (s *Session) NextImage() bool {
	if s.siblingIndex < 0 || s.siblingIndex >= len(s.siblings)-1 {
		return false
	}
	return s.LoadImage(s.siblings[s.siblingIndex+1]) == nil
}

// PrevImage loads the previous sibling image, saving first.
func (s *Session) PrevImage() bool {
	if s.siblingIndex <= 0 {
		return false
	}
	return s.LoadImage(s.siblings[s.siblingIndex-1]) == nil
}

// Pointer feeds one raw pointer event to the state machine. Events before
// an image is loaded are dropped.
func (s *Session) Pointer(ev gestures.PointerEvent) {
	if s.img == nil {
		return
	}
	s.rec.HandlePointer(ev)
}

// Wheel feeds one wheel event; wheel zoom works regardless of button state.
func (s *Session) Wheel(ev gestures.WheelEvent) {
	if s.img == nil {
		return
	}
	s.rec.HandleWheel(ev)
}

// Undo restores the mask state before the last add or delete and saves the
// restored state. An empty undo history is a silent no-op.
func (s *Session) Undo() {
	if s.store == nil || !s.store.Undo() {
		return
	}
	s.saveMasks()
}

// PolygonComplete rasterizes a completed draw gesture into a new mask.
// A polygon that encloses no pixels is dropped silently: no identifier is
// allocated and no undo entry is pushed.
func (s *Session) PolygonComplete(points []graphics.Offset) {
	pixels := raster.FillPolygon(points, s.img.Width, s.img.Height)
	if _, err := s.store.AddMask(pixels); err != nil {
		return
	}
	s.saveMasks()
}

// DeleteAt removes the mask under an image-space point. Background points
// are a no-op and trigger no save.
func (s *Session) DeleteAt(p graphics.Offset) {
	if _, ok := s.store.DeleteMaskAt(graphics.PointOf(p)); !ok {
		return
	}
	s.saveMasks()
}

// Pan translates the view by a canvas-space delta.
func (s *Session) Pan(delta graphics.Offset) {
	s.view.PanBy(delta)
}

// Zoom rescales around a canvas-space anchor.
func (s *Session) Zoom(anchor graphics.Offset, factor float64) {
	s.view.ZoomAt(anchor, factor)
}

// saveMasks persists the current array. The grid is deep-copied before the
// write starts, so edits made after saveMasks returns can never leak into
// the saved bytes even if a Persister writes asynchronously. A failed save
// keeps the in-memory state; the next successful save writes all of it.
func (s *Session) saveMasks() {
	if s.store == nil || s.maskPath == "" {
		return
	}
	snapshot := s.store.Grid().Clone()
	if err := s.persister.Save(s.maskPath, snapshot); err != nil {
		report("engine.saveMasks", errors.KindIO, err)
	}
}

// report forwards err to the global handler, preserving its structure when
// it already is a SegError.
func report(op string, kind errors.ErrorKind, err error) {
	if se, ok := err.(*errors.SegError); ok {
		errors.Report(se)
		return
	}
	errors.Report(errors.E(op, kind, err))
}

// Masks returns the current labeled array, or nil before the first image
// loads. Renderers treat it as read-only.
func (s *Session) Masks() *mask.Grid {
	if s.store == nil {
		return nil
	}
	return s.store.Grid()
}

// View returns the live view transform for rendering and input mapping.
func (s *Session) View() *viewport.Transform { return s.view }

// CurrentPolygon exposes the in-progress polygon for live preview.
func (s *Session) CurrentPolygon() []graphics.Offset { return s.rec.CurrentPolygon() }

// GestureState reports the recognizer state, mainly for status display.
func (s *Session) GestureState() gestures.State { return s.rec.State() }

// Overlay renders the mask overlay bitmap for compositing, or nil before
// the first image loads.
func (s *Session) Overlay() *image.RGBA {
	if s.store == nil {
		return nil
	}
	return palette.Overlay(s.store.Grid())
}

// Frame renders the display frame: the image's RGBA data with the mask
// overlay composited at the configured alpha. Returns nil before the first
// image loads. The image's own buffers are never written.
func (s *Session) Frame() *image.RGBA {
	if s.img == nil || s.store == nil {
		return nil
	}
	src := s.img.RGBA()
	frame := image.NewRGBA(src.Bounds())
	copy(frame.Pix, src.Pix)
	palette.Composite(frame, s.store.Grid(), s.cfg.OverlayAlpha)
	return frame
}

// ColorFor returns the display color of a mask identifier.
func (s *Session) ColorFor(id int32) graphics.Color { return palette.ColorFor(id) }

// MaskCount returns the number of masks on the current image.
func (s *Session) MaskCount() int {
	if s.store == nil {
		return 0
	}
	return s.store.Count()
}

// NextLabel returns the identifier the next completed polygon will get.
func (s *Session) NextLabel() int32 {
	if s.store == nil {
		return 1
	}
	return s.store.NextID()
}

// Image returns the currently loaded image, or nil.
func (s *Session) Image() *imageio.Image { return s.img }

// Store exposes the mask store for direct scripted edits (conversion
// tools, tests). Interactive editing goes through Pointer events.
func (s *Session) Store() *mask.Store { return s.store }
