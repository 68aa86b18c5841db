package tui

import (
	"context"
	"testing"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
	"github.com/rafamesquita/BlindStyle-TCC/internal/capture"
	"github.com/rafamesquita/BlindStyle-TCC/internal/media"
	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
	"github.com/rafamesquita/BlindStyle-TCC/internal/speech"
	"github.com/rafamesquita/BlindStyle-TCC/internal/suggest"
)

type stubDescriber struct{}

func (stubDescriber) ExtractFeatures(ctx context.Context, imageBase64 string) (*models.Description, error) {
	return &models.Description{Success: true, Description: "Camisa azul"}, nil
}

type stubItems struct{}

func (stubItems) CreateItem(ctx context.Context, item models.ClothingItem) (*models.ClothingItem, error) {
	created := item
	created.ID = 1
	return &created, nil
}

type stubSuggester struct{}

func (stubSuggester) GenerateSuggestions(ctx context.Context, itemID string) (*api.SuggestionSlots, error) {
	return &api.SuggestionSlots{}, nil
}

func newTestApp() *App {
	w := capture.New(media.NewController(nil), stubDescriber{}, stubItems{}, stubSuggester{})
	return NewApp(w, speech.Noop{}, media.FacingFront, "")
}

func TestSavedReturnsToCameraScreen(t *testing.T) {
	a := newTestApp()
	a.screen = screenReview
	a.nameInput.SetValue("Camisa favorita")

	model, cmd := a.Update(savedMsg{})
	got := model.(*App)

	if got.screen != screenCamera {
		t.Fatalf("Expected camera screen after save, got %d", got.screen)
	}
	if got.nameInput.Value() != "" {
		t.Errorf("Expected name input cleared for the next capture, got %q", got.nameInput.Value())
	}
	if got.notice == "" {
		t.Error("Expected a confirmation notice after save")
	}
	if cmd == nil {
		t.Error("Expected a scheduled notice clear")
	}

	model, _ = got.Update(noticeTickMsg{})
	if model.(*App).notice != "" {
		t.Error("Expected the notice to clear on tick")
	}
}

func TestEmptySuggestionShowsEmptyScreen(t *testing.T) {
	a := newTestApp()
	a.screen = screenLoading

	model, _ := a.Update(suggestedMsg{err: suggest.ErrNoSuggestions})
	if model.(*App).screen != screenSuggestionEmpty {
		t.Fatalf("Expected empty-suggestion screen, got %d", model.(*App).screen)
	}
}
