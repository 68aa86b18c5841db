// Package capture coordinates the capture-to-suggestion workflow: obtaining
// an image, describing it, reviewing the attributes, and saving the item or
// requesting outfit suggestions.
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
	"github.com/rafamesquita/BlindStyle-TCC/internal/media"
	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
	"github.com/rafamesquita/BlindStyle-TCC/internal/suggest"
)

// State is the workflow state.
type State int

const (
	StateIdle State = iota
	StateCameraActive
	StateDescribing
	StateReviewing
	StateSaving
	StateSuggestionLoading
	StateSuggestionShown
	StateSuggestionEmpty
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCameraActive:
		return "camera_active"
	case StateDescribing:
		return "describing"
	case StateReviewing:
		return "reviewing"
	case StateSaving:
		return "saving"
	case StateSuggestionLoading:
		return "suggestion_loading"
	case StateSuggestionShown:
		return "suggestion_shown"
	case StateSuggestionEmpty:
		return "suggestion_empty"
	}
	return "unknown"
}

// ErrDescriptionUnavailable is surfaced when feature extraction fails; the
// workflow has already been reset to a safe state by then.
var ErrDescriptionUnavailable = errors.New("description unavailable")

// ErrSuggestionUnavailable is surfaced when the suggestion request fails.
// It is distinct from suggest.ErrNoSuggestions, which is a success-shaped
// empty result.
var ErrSuggestionUnavailable = errors.New("suggestion unavailable")

// DefaultItemName is used when the user leaves the item name blank.
const DefaultItemName = "Roupa"

// Describer extracts clothing attributes from a base64 image.
type Describer interface {
	ExtractFeatures(ctx context.Context, imageBase64 string) (*models.Description, error)
}

// ItemWriter persists clothing items.
type ItemWriter interface {
	CreateItem(ctx context.Context, item models.ClothingItem) (*models.ClothingItem, error)
}

// Suggester requests outfit suggestions for a persisted item.
type Suggester interface {
	GenerateSuggestions(ctx context.Context, itemID string) (*api.SuggestionSlots, error)
}

// Workflow is one capture-session instance. All mutating operations hold the
// workflow lock; slow calls (network, capture) run outside it and re-check
// the workflow generation before applying their result, so responses that
// arrive after teardown or a reset are safely ignored.
type Workflow struct {
	ID string

	camera    *media.Controller
	describer Describer
	items     ItemWriter
	suggester Suggester

	mu          sync.Mutex
	state       State
	gen         uint64
	closed      bool
	image       *media.CapturedImage
	description *models.Description
	suggestions []suggest.Suggestion
	savedItemID string
	notice      string
}

// New creates a workflow instance. The three service interfaces are usually
// the same *api.Client.
func New(camera *media.Controller, describer Describer, items ItemWriter, suggester Suggester) *Workflow {
	return &Workflow{
		ID:        uuid.NewString(),
		camera:    camera,
		describer: describer,
		items:     items,
		suggester: suggester,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Description returns the extracted attributes shown in review, if any.
func (w *Workflow) Description() *models.Description {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.description
}

// Suggestions returns the normalized suggestion list, if any.
func (w *Workflow) Suggestions() []suggest.Suggestion {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suggestions
}

// Notice returns a non-blocking message from a tolerated failure (such as a
// save that did not stick) and clears it.
func (w *Workflow) Notice() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := w.notice
	w.notice = ""
	return n
}

// Camera exposes the capture controller for view-level state (transient
// camera errors).
func (w *Workflow) Camera() *media.Controller {
	return w.camera
}

// StartCamera opens the camera stream with the given facing preference.
func (w *Workflow) StartCamera(ctx context.Context, facing media.Facing) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	gen := w.gen
	w.mu.Unlock()

	err := w.camera.StartCamera(ctx, facing)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stale(gen) {
		w.camera.StopCamera()
		return nil
	}
	if err != nil {
		w.state = StateIdle
		return err
	}
	w.state = StateCameraActive
	return nil
}

// StopCamera releases the stream and returns to Idle.
func (w *Workflow) StopCamera() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.camera.StopCamera()
	if w.state == StateCameraActive {
		w.state = StateIdle
	}
}

// CaptureAndDescribe grabs the current frame and runs feature extraction.
// Only valid while the camera is active.
func (w *Workflow) CaptureAndDescribe(ctx context.Context) error {
	w.mu.Lock()
	if w.closed || w.state != StateCameraActive {
		w.mu.Unlock()
		return media.ErrNotStreaming
	}
	gen := w.gen
	w.mu.Unlock()

	img, err := w.camera.CaptureFrame(ctx)
	if err != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.stale(gen) {
			w.resetLocked()
		}
		return err
	}

	return w.describe(ctx, gen, img)
}

// DescribeFile runs the file-picker path: the image comes from disk and the
// workflow reaches review without ever activating the camera.
func (w *Workflow) DescribeFile(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	gen := w.gen
	w.mu.Unlock()

	img, err := w.camera.CaptureFromFile(path)
	if err != nil {
		return err
	}
	return w.describe(ctx, gen, img)
}

// describe sends the image for feature extraction. The camera is stopped on
// both outcomes: the captured frame does not survive a pipeline failure, and
// a successful review no longer needs the stream.
func (w *Workflow) describe(ctx context.Context, gen uint64, img *media.CapturedImage) error {
	w.mu.Lock()
	if w.stale(gen) {
		w.mu.Unlock()
		return nil
	}
	w.image = img
	w.state = StateDescribing
	w.mu.Unlock()

	encoded := base64.StdEncoding.EncodeToString(img.Bytes)
	description, err := w.describer.ExtractFeatures(ctx, encoded)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stale(gen) {
		return nil
	}

	w.camera.StopCamera()
	if err != nil {
		slog.Warn("Feature extraction failed", "workflow", w.ID, "err", err)
		w.resetLocked()
		return fmt.Errorf("%w: %v", ErrDescriptionUnavailable, err)
	}

	w.description = description
	w.state = StateReviewing
	slog.Info("Description ready", "workflow", w.ID, "source", img.Source)
	return nil
}

// Save persists the reviewed item. Attributes are forwarded verbatim with
// ownership set and the name defaulted when left blank. A failed save does
// not reopen the workflow; it is logged and reported as a notice.
func (w *Workflow) Save(ctx context.Context, name string) {
	w.mu.Lock()
	if w.closed || w.state != StateReviewing || w.description == nil || w.image == nil {
		w.mu.Unlock()
		return
	}
	gen := w.gen
	item := w.buildItemLocked(name)
	w.state = StateSaving
	w.mu.Unlock()

	created, err := w.items.CreateItem(ctx, item)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stale(gen) {
		return
	}

	if err != nil {
		slog.Warn("Item save failed", "workflow", w.ID, "err", err)
		w.notice = "Não foi possível salvar a roupa."
	} else if created != nil && created.ID != 0 {
		w.savedItemID = strconv.Itoa(created.ID)
		slog.Info("Item saved", "workflow", w.ID, "item_id", created.ID)
	}

	// The review modal is closed either way; the capture is done.
	w.resetLocked()
}

func (w *Workflow) buildItemLocked(name string) models.ClothingItem {
	if name == "" {
		name = DefaultItemName
	}
	item := models.ClothingItem{
		Name:        name,
		Description: w.description.Description,
		ImageURL:    base64.StdEncoding.EncodeToString(w.image.Bytes),
		Ownership:   true,
	}
	if f := w.description.Features; f != nil {
		item.Category = f.Category
		item.ItemType = f.ItemType
		item.PrimaryColor = f.PrimaryColor
		item.Usage = f.Usage
		item.Texture = f.Texture
		item.PrintCategory = f.PrintCategory
	}
	return item
}

// Suggest requests outfit suggestions for a persisted item. With an empty
// itemID the most recently saved item is used. The empty-result outcome is
// reported as suggest.ErrNoSuggestions and moves the workflow to
// SuggestionEmpty; request failures return to review.
func (w *Workflow) Suggest(ctx context.Context, itemID string) error {
	w.mu.Lock()
	if w.closed || (w.state != StateReviewing && w.state != StateSuggestionEmpty) {
		w.mu.Unlock()
		return nil
	}
	if itemID == "" {
		itemID = w.savedItemID
	}
	gen := w.gen
	w.state = StateSuggestionLoading
	w.mu.Unlock()

	slots, err := w.suggester.GenerateSuggestions(ctx, itemID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stale(gen) {
		return nil
	}

	if err != nil {
		slog.Warn("Suggestion request failed", "workflow", w.ID, "item_id", itemID, "err", err)
		w.state = StateReviewing
		return fmt.Errorf("%w: %v", ErrSuggestionUnavailable, err)
	}

	suggestions, err := suggest.Normalize(slots)
	if errors.Is(err, suggest.ErrNoSuggestions) {
		w.suggestions = nil
		w.state = StateSuggestionEmpty
		return err
	}

	w.suggestions = suggestions
	w.state = StateSuggestionShown
	return nil
}

// Back returns from the suggestion view to review.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSuggestionShown || w.state == StateSuggestionEmpty {
		w.suggestions = nil
		w.state = StateReviewing
	}
}

// Close tears the workflow down from any state: camera released, transient
// image discarded, and any in-flight response ignored on arrival.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.resetLocked()
	w.camera.Close()
}

// resetLocked discards transient capture state and bumps the generation so
// outstanding operations drop their results.
func (w *Workflow) resetLocked() {
	w.gen++
	w.image = nil
	w.description = nil
	w.suggestions = nil
	w.state = StateIdle
	w.camera.StopCamera()
}

func (w *Workflow) stale(gen uint64) bool {
	return w.closed || w.gen != gen
}
