package capture_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
	"github.com/rafamesquita/BlindStyle-TCC/internal/capture"
	"github.com/rafamesquita/BlindStyle-TCC/internal/media"
	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
	"github.com/rafamesquita/BlindStyle-TCC/internal/suggest"
)

type fakeStream struct{ released bool }

func (s *fakeStream) Frame(ctx context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 6)), nil
}

func (s *fakeStream) Release() { s.released = true }

type fakeDevice struct{ streams []*fakeStream }

func (d *fakeDevice) Acquire(ctx context.Context, facing media.Facing) (media.Stream, error) {
	s := &fakeStream{}
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) liveStreams() int {
	n := 0
	for _, s := range d.streams {
		if !s.released {
			n++
		}
	}
	return n
}

type fakeDescriber struct {
	mu        sync.Mutex
	gotBase64 string
	resp      *models.Description
	err       error

	// When set, ExtractFeatures blocks: entered is closed on entry and the
	// call returns once release is closed.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeDescriber) ExtractFeatures(ctx context.Context, imageBase64 string) (*models.Description, error) {
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	f.mu.Lock()
	f.gotBase64 = imageBase64
	f.mu.Unlock()
	return f.resp, f.err
}

type fakeItems struct {
	mu      sync.Mutex
	created []models.ClothingItem
	err     error
}

func (f *fakeItems) CreateItem(ctx context.Context, item models.ClothingItem) (*models.ClothingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, item)
	created := item
	created.ID = len(f.created)
	return &created, nil
}

type fakeSuggester struct {
	slots  *api.SuggestionSlots
	err    error
	gotID  string
	called int
}

func (f *fakeSuggester) GenerateSuggestions(ctx context.Context, itemID string) (*api.SuggestionSlots, error) {
	f.called++
	f.gotID = itemID
	return f.slots, f.err
}

func testDescription() *models.Description {
	return &models.Description{
		Success:     true,
		Description: "Camisa azul de algodão",
		Features: &models.ClothingFeatures{
			Category:      "tops",
			ItemType:      "camisa",
			PrimaryColor:  "azul",
			Usage:         "casual",
			Texture:       "cotton",
			PrintCategory: "plain",
		},
	}
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	path := filepath.Join(t.TempDir(), "look.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func newTestWorkflow(device media.Device, d *fakeDescriber, i *fakeItems, s *fakeSuggester) *capture.Workflow {
	return capture.New(media.NewController(device), d, i, s)
}

func TestCameraCaptureReachesReview(t *testing.T) {
	device := &fakeDevice{}
	describer := &fakeDescriber{resp: testDescription()}
	w := newTestWorkflow(device, describer, &fakeItems{}, &fakeSuggester{})
	defer w.Close()

	require.NoError(t, w.StartCamera(context.Background(), media.FacingFront))
	assert.Equal(t, capture.StateCameraActive, w.State())

	require.NoError(t, w.CaptureAndDescribe(context.Background()))
	assert.Equal(t, capture.StateReviewing, w.State())
	require.NotNil(t, w.Description())
	assert.Equal(t, "Camisa azul de algodão", w.Description().Description)

	// The frame is captured; the stream must not stay live through review.
	assert.Equal(t, 0, device.liveStreams())
}

func TestFilePathSkipsCamera(t *testing.T) {
	describer := &fakeDescriber{resp: testDescription()}
	w := newTestWorkflow(&fakeDevice{}, describer, &fakeItems{}, &fakeSuggester{})
	defer w.Close()

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))
	assert.Equal(t, capture.StateReviewing, w.State())
}

func TestDescribeSendsRawBase64(t *testing.T) {
	describer := &fakeDescriber{resp: testDescription()}
	w := newTestWorkflow(&fakeDevice{}, describer, &fakeItems{}, &fakeSuggester{})
	defer w.Close()

	path := writeTestImage(t)
	require.NoError(t, w.DescribeFile(context.Background(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), describer.gotBase64)
}

func TestDescriptionFailureResetsToIdle(t *testing.T) {
	device := &fakeDevice{}
	describer := &fakeDescriber{err: errors.New("boom")}
	w := newTestWorkflow(device, describer, &fakeItems{}, &fakeSuggester{})
	defer w.Close()

	require.NoError(t, w.StartCamera(context.Background(), media.FacingFront))
	err := w.CaptureAndDescribe(context.Background())
	require.ErrorIs(t, err, capture.ErrDescriptionUnavailable)

	assert.Equal(t, capture.StateIdle, w.State())
	assert.Nil(t, w.Description())
	assert.Equal(t, 0, device.liveStreams(), "camera must be released on failure")
}

func TestSaveForwardsAttributesVerbatim(t *testing.T) {
	items := &fakeItems{}
	describer := &fakeDescriber{resp: testDescription()}
	w := newTestWorkflow(&fakeDevice{}, describer, items, &fakeSuggester{})
	defer w.Close()

	path := writeTestImage(t)
	require.NoError(t, w.DescribeFile(context.Background(), path))

	w.Save(context.Background(), "")

	require.Len(t, items.created, 1)
	item := items.created[0]
	assert.Equal(t, "Roupa", item.Name, "blank name defaults")
	assert.True(t, item.Ownership)
	assert.Equal(t, "tops", item.Category)
	assert.Equal(t, "camisa", item.ItemType)
	assert.Equal(t, "azul", item.PrimaryColor)
	assert.Equal(t, "casual", item.Usage)
	assert.Equal(t, "cotton", item.Texture)
	assert.Equal(t, "plain", item.PrintCategory)
	assert.Equal(t, "Camisa azul de algodão", item.Description)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), item.ImageURL)

	// The review modal is closed after save.
	assert.Equal(t, capture.StateIdle, w.State())
}

func TestSaveKeepsGivenName(t *testing.T) {
	items := &fakeItems{}
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, items, &fakeSuggester{})
	defer w.Close()

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))
	w.Save(context.Background(), "Camisa favorita")

	require.Len(t, items.created, 1)
	assert.Equal(t, "Camisa favorita", items.created[0].Name)
}

func TestSaveFailureClosesWorkflowWithNotice(t *testing.T) {
	items := &fakeItems{err: errors.New("boom")}
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, items, &fakeSuggester{})
	defer w.Close()

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))
	w.Save(context.Background(), "")

	assert.Equal(t, capture.StateIdle, w.State(), "a failed save does not reopen the workflow")
	assert.NotEmpty(t, w.Notice())
	assert.Empty(t, w.Notice(), "notice is cleared after being read")
}

func TestSuggestAllNullIsEmptyResult(t *testing.T) {
	suggester := &fakeSuggester{slots: &api.SuggestionSlots{}}
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, &fakeItems{}, suggester)
	defer w.Close()

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))

	err := w.Suggest(context.Background(), "42")
	require.ErrorIs(t, err, suggest.ErrNoSuggestions)
	assert.Equal(t, capture.StateSuggestionEmpty, w.State())
	assert.Empty(t, w.Suggestions())
	assert.Equal(t, "42", suggester.gotID)
}

func TestSuggestShowsSurvivorsThenBack(t *testing.T) {
	suggester := &fakeSuggester{slots: &api.SuggestionSlots{
		Outfit2: &models.Outfit{OutfitID: "o2", Probability: 0.7},
	}}
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, &fakeItems{}, suggester)
	defer w.Close()

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))

	require.NoError(t, w.Suggest(context.Background(), "42"))
	assert.Equal(t, capture.StateSuggestionShown, w.State())
	require.Len(t, w.Suggestions(), 1)
	assert.Equal(t, "Sugestão 1", w.Suggestions()[0].Title)

	w.Back()
	assert.Equal(t, capture.StateReviewing, w.State())
	assert.Empty(t, w.Suggestions())
}

func TestSuggestUsesLastSavedItemID(t *testing.T) {
	items := &fakeItems{}
	suggester := &fakeSuggester{slots: &api.SuggestionSlots{
		Outfit1: &models.Outfit{OutfitID: "o1", Probability: 0.9},
	}}
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, items, suggester)
	defer w.Close()

	// Save one item, then describe the next; an empty item id falls back to
	// the id the save persisted.
	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))
	w.Save(context.Background(), "")
	require.Len(t, items.created, 1)

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))
	require.NoError(t, w.Suggest(context.Background(), ""))

	assert.Equal(t, "1", suggester.gotID)
	assert.Equal(t, capture.StateSuggestionShown, w.State())
}

func TestSuggestFailureReturnsToReview(t *testing.T) {
	suggester := &fakeSuggester{err: errors.New("boom")}
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, &fakeItems{}, suggester)
	defer w.Close()

	require.NoError(t, w.DescribeFile(context.Background(), writeTestImage(t)))

	err := w.Suggest(context.Background(), "42")
	require.ErrorIs(t, err, capture.ErrSuggestionUnavailable)
	assert.Equal(t, capture.StateReviewing, w.State())
}

func TestLateDescriptionAfterCloseIsIgnored(t *testing.T) {
	describer := &fakeDescriber{
		resp:    testDescription(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	w := newTestWorkflow(&fakeDevice{}, describer, &fakeItems{}, &fakeSuggester{})

	path := writeTestImage(t)
	done := make(chan error, 1)
	go func() { done <- w.DescribeFile(context.Background(), path) }()

	<-describer.entered
	w.Close()
	close(describer.release)

	require.NoError(t, <-done)
	assert.Nil(t, w.Description(), "a response arriving after teardown must not mutate the workflow")
	assert.Equal(t, capture.StateIdle, w.State())
}

func TestCaptureOutsideCameraActiveIsNoop(t *testing.T) {
	w := newTestWorkflow(&fakeDevice{}, &fakeDescriber{resp: testDescription()}, &fakeItems{}, &fakeSuggester{})
	defer w.Close()

	err := w.CaptureAndDescribe(context.Background())
	require.ErrorIs(t, err, media.ErrNotStreaming)
}
