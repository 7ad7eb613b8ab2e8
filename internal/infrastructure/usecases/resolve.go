package usecases

import (
	"context"
	"fmt"

	"github.com/sophialabs/catapult/internal/domain/matcher"
	"github.com/sophialabs/catapult/internal/domain/trace"
	"github.com/sophialabs/catapult/internal/infrastructure/ports"
)

// Sources recorded on trace entries.
const (
	SourceCLI  = "cli"
	SourceHTTP = "http"
)

// ResolveResult is the outcome of one resolution.
type ResolveResult struct {
	Matched  bool
	Redirect string
	Trace    trace.LogTrace
	Entry    trace.Entry
}

// ResolveUseCase loads the configuration and resolves an input against it.
// The configuration is loaded afresh on every call.
type ResolveUseCase struct {
	repo        matcher.Repository
	clock       ports.Clock
	logger      ports.Logger
	traceLogger ports.Logger
	traceBuf    *trace.RingBuffer
}

// NewResolveUseCase creates a new use case. traceBuf may be nil.
func NewResolveUseCase(
	repo matcher.Repository,
	clock ports.Clock,
	logger ports.Logger,
	traceLogger ports.Logger,
	traceBuf *trace.RingBuffer,
) *ResolveUseCase {
	return &ResolveUseCase{
		repo:        repo,
		clock:       clock,
		logger:      logger,
		traceLogger: traceLogger,
		traceBuf:    traceBuf,
	}
}

// Execute resolves input. A non-match is not an error.
func (uc *ResolveUseCase) Execute(ctx context.Context, source, input string) (ResolveResult, error) {
	entry := trace.Entry{
		Timestamp: uc.clock.Now(),
		Source:    source,
		Input:     input,
	}
	result := ResolveResult{}

	cfg, err := uc.repo.Load(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load configuration: %w", err)
		return uc.fail(result, entry, err)
	}

	res, ok, err := matcher.Apply(cfg.Match, input)
	if err != nil {
		return uc.fail(result, entry, err)
	}

	if !ok {
		uc.logger.Debug("no match", "source", source, "input", input)
		result.Entry = uc.record(entry)
		return result, nil
	}

	rendered := res.Trace.Render()
	uc.traceLogger.Info("OK: " + rendered)

	entry.Matched = true
	entry.Redirect = res.Redirect
	entry.Trace = rendered

	result.Matched = true
	result.Redirect = res.Redirect
	result.Trace = res.Trace
	result.Entry = uc.record(entry)
	return result, nil
}

func (uc *ResolveUseCase) fail(result ResolveResult, entry trace.Entry, err error) (ResolveResult, error) {
	uc.logger.Error("resolution failed", "source", entry.Source, "input", entry.Input, "error", err)
	entry.Error = err.Error()
	result.Entry = uc.record(entry)
	return result, err
}

func (uc *ResolveUseCase) record(entry trace.Entry) trace.Entry {
	if uc.traceBuf != nil {
		uc.traceBuf.Add(entry)
	}
	return entry
}
