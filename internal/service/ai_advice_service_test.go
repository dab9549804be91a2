package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

type fakeCompleter struct {
	text  string
	err   error
	block bool
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

type fakeAdviceStore struct {
	saved map[string]string
	err   error
}

func (f *fakeAdviceStore) SaveAISuggestion(ctx context.Context, childID, text string) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[childID] = text
	return nil
}

func adviceChild() *models.Child {
	return &models.Child{ID: "c1", Nickname: "Mia", Age: 8, Gender: models.GenderFemale, EducationStage: models.StageElementary}
}

func TestGenerateSuccessPersists(t *testing.T) {
	completer := &fakeCompleter{text: "Short sessions work best at this age."}
	store := &fakeAdviceStore{}
	svc := NewAIAdviceService(completer, store, true, true, time.Second, nil)

	require.True(t, svc.CanGenerate())
	got := svc.Generate(context.Background(), adviceChild(), nil)
	assert.Equal(t, "Short sessions work best at this age.", got)
	assert.Equal(t, got, store.saved["c1"])
}

func TestGenerateRequestErrorPersistsFallback(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream unavailable")}
	store := &fakeAdviceStore{}
	svc := NewAIAdviceService(completer, store, true, true, time.Second, nil)

	got := svc.Generate(context.Background(), adviceChild(), nil)
	assert.Equal(t, FallbackAdvice, got)
	assert.Equal(t, FallbackAdvice, store.saved["c1"], "failed generation must store the fallback text")
}

func TestGenerateEmptyResponseFallsBack(t *testing.T) {
	completer := &fakeCompleter{text: "   "}
	store := &fakeAdviceStore{}
	svc := NewAIAdviceService(completer, store, true, true, time.Second, nil)

	assert.Equal(t, FallbackAdvice, svc.Generate(context.Background(), adviceChild(), nil))
	assert.Equal(t, FallbackAdvice, store.saved["c1"])
}

func TestGenerateTimeoutFallsBack(t *testing.T) {
	completer := &fakeCompleter{block: true}
	store := &fakeAdviceStore{}
	svc := NewAIAdviceService(completer, store, true, true, 10*time.Millisecond, nil)

	assert.Equal(t, FallbackAdvice, svc.Generate(context.Background(), adviceChild(), nil))
	assert.Equal(t, FallbackAdvice, store.saved["c1"])
}

func TestGenerateDisabledFallsBack(t *testing.T) {
	completer := &fakeCompleter{text: "never used"}
	svc := NewAIAdviceService(completer, &fakeAdviceStore{}, false, true, time.Second, nil)

	assert.False(t, svc.CanGenerate())
	assert.Equal(t, FallbackAdvice, svc.Generate(context.Background(), adviceChild(), nil))
	assert.Zero(t, completer.calls)
}

func TestGenerateMissingCredentialFallsBack(t *testing.T) {
	svc := NewAIAdviceService(&fakeCompleter{text: "x"}, &fakeAdviceStore{}, true, false, time.Second, nil)
	assert.False(t, svc.CanGenerate())
	assert.Equal(t, FallbackAdvice, svc.Generate(context.Background(), adviceChild(), nil))
}

func TestGeneratePersistFailureStillReturnsText(t *testing.T) {
	completer := &fakeCompleter{text: "Practice math in the morning."}
	store := &fakeAdviceStore{err: errors.New("db down")}
	svc := NewAIAdviceService(completer, store, true, true, time.Second, nil)

	assert.Equal(t, "Practice math in the morning.", svc.Generate(context.Background(), adviceChild(), nil))
}

func TestCleanLegacyAdvice(t *testing.T) {
	assert.True(t, CleanLegacyAdvice(legacyOfflinePrefix+" stay focused"))
	assert.False(t, CleanLegacyAdvice("stay focused"))
}
