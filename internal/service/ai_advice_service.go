package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
)

// FallbackAdvice is the one string every advice failure collapses to. The
// rule-based suggestions stay available regardless, so callers can always
// show something useful.
const FallbackAdvice = "AI advice could not be generated right now. Please try again later. The study suggestions below are still available."

// legacyOfflinePrefix marks advice written by a retired offline generator.
// Stored advice carrying it is discarded on read.
const legacyOfflinePrefix = "[System advice (no API key)]"

// TextCompleter produces free text for a prompt.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type adviceStore interface {
	SaveAISuggestion(ctx context.Context, childID, text string) error
}

type adviceErrorKind int

const (
	adviceUnavailable adviceErrorKind = iota
	adviceRequestFailed
	adviceTimedOut
	adviceEmptyResponse
)

// adviceError keeps failure causes distinguishable for logging. It never
// crosses the service boundary; Generate collapses every kind to
// FallbackAdvice exactly once.
type adviceError struct {
	kind adviceErrorKind
	err  error
}

func (e *adviceError) Error() string {
	switch e.kind {
	case adviceUnavailable:
		return "advice generation unavailable"
	case adviceTimedOut:
		return fmt.Sprintf("advice request timed out: %v", e.err)
	case adviceEmptyResponse:
		return "advice response was empty"
	default:
		return fmt.Sprintf("advice request failed: %v", e.err)
	}
}

// AIAdviceService turns a child's study summary into personalised advice
// text. Generate is total: it always returns displayable text.
type AIAdviceService struct {
	completer   TextCompleter
	store       adviceStore
	canGenerate bool
	timeout     time.Duration
	logger      *zap.Logger
}

// NewAIAdviceService constructs the advice service. Capability is fixed at
// construction: the feature flag, a working completer and a credential must
// all be present, otherwise every Generate call returns the fallback.
func NewAIAdviceService(completer TextCompleter, store adviceStore, enabled, hasCredential bool, timeout time.Duration, logger *zap.Logger) *AIAdviceService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIAdviceService{
		completer:   completer,
		store:       store,
		canGenerate: enabled && completer != nil && hasCredential,
		timeout:     timeout,
		logger:      logger,
	}
}

// CanGenerate reports whether real advice generation is possible.
func (s *AIAdviceService) CanGenerate() bool {
	return s != nil && s.canGenerate
}

// Generate produces advice for the child from their sessions, persists it,
// and returns it. Generation never fails outward: any failure collapses to
// FallbackAdvice, and that too is persisted so later reads show the same
// text until a regeneration succeeds.
func (s *AIAdviceService) Generate(ctx context.Context, child *models.Child, sessions []models.StudySession) string {
	text, aerr := s.generate(ctx, child, sessions)
	if aerr != nil {
		s.logger.Warn("advice generation failed",
			zap.String("child_id", child.ID),
			zap.Int("kind", int(aerr.kind)),
			zap.Error(aerr))
		text = FallbackAdvice
	}

	if s.store != nil {
		if err := s.store.SaveAISuggestion(ctx, child.ID, text); err != nil {
			s.logger.Warn("persist advice failed", zap.String("child_id", child.ID), zap.Error(err))
		}
	}
	return text
}

func (s *AIAdviceService) generate(ctx context.Context, child *models.Child, sessions []models.StudySession) (string, *adviceError) {
	if !s.canGenerate {
		return "", &adviceError{kind: adviceUnavailable}
	}

	prompt := buildAdvicePrompt(child, stats.Aggregate(sessions))

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.completer.Complete(reqCtx, prompt)
	if err != nil {
		if reqCtx.Err() != nil {
			return "", &adviceError{kind: adviceTimedOut, err: err}
		}
		return "", &adviceError{kind: adviceRequestFailed, err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &adviceError{kind: adviceEmptyResponse}
	}
	return text, nil
}

// CleanLegacyAdvice reports whether stored advice text is a leftover from
// the retired offline generator and must be discarded.
func CleanLegacyAdvice(text string) bool {
	return strings.HasPrefix(text, legacyOfflinePrefix)
}

func buildAdvicePrompt(child *models.Child, summary stats.Summary) string {
	var b strings.Builder

	b.WriteString("You are a professional education advisor. Based on the student profile and study summary below, give concrete, actionable study advice.\n\n")

	b.WriteString("Student profile:\n")
	b.WriteString(fmt.Sprintf("- Nickname: %s\n", child.Nickname))
	b.WriteString(fmt.Sprintf("- Age: %d\n", child.Age))
	b.WriteString(fmt.Sprintf("- Gender: %s\n", models.GenderName(child.Gender)))
	b.WriteString(fmt.Sprintf("- Education stage: %s\n\n", models.StageName(child.EducationStage)))

	b.WriteString("Study summary:\n")
	if summary.TotalSessions == 0 {
		b.WriteString("No study records yet.\n\n")
	} else {
		b.WriteString(fmt.Sprintf("- Total sessions: %d\n", summary.TotalSessions))
		b.WriteString(fmt.Sprintf("- Total study time: %d minutes\n", summary.TotalMinutes))
		b.WriteString(fmt.Sprintf("- Average attention: %d%%\n", summary.OverallAttentionPercent))
		if summary.BestSubject != "" {
			b.WriteString(fmt.Sprintf("- Strongest subject: %s\n", models.SubjectName(summary.BestSubject)))
		}
		if summary.WorstSubject != "" {
			b.WriteString(fmt.Sprintf("- Subject needing work: %s\n", models.SubjectName(summary.WorstSubject)))
		}
		b.WriteString("\n")
	}

	b.WriteString("Cover these areas, each with a specific, doable suggestion:\n")
	b.WriteString("1. Learning strategy for this age and stage\n")
	b.WriteString("2. Improving attention\n")
	b.WriteString("3. Scheduling study and rest\n")
	b.WriteString("4. Building on current performance\n")
	b.WriteString("5. Suitable tools or methods\n\n")
	b.WriteString("Write in a warm, encouraging tone as one flowing paragraph (no bullet list), at most 300 words.\n")

	return b.String()
}
