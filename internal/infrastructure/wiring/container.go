package wiring

import (
	"errors"

	"github.com/sophialabs/catapult/internal/domain/matcher"
	"github.com/sophialabs/catapult/internal/domain/trace"
	inboundhttp "github.com/sophialabs/catapult/internal/infrastructure/inbound/http"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/clock"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/catapult/internal/infrastructure/ports"
	"github.com/sophialabs/catapult/internal/infrastructure/usecases"
)

// Params holds the subset of configuration needed to construct infrastructure components.
type Params struct {
	ConfigPath  string
	TraceSize   int
	Logger      ports.Logger
	TraceLogger ports.Logger

	// Repository overrides the file-backed repository; tests use it.
	Repository matcher.Repository
	Clock      ports.Clock
}

// Container owns the construction of all infrastructure components.
// Nothing it builds holds resources that need closing.
type Container struct {
	logger     ports.Logger
	repo       matcher.Repository
	traceBuf   *trace.RingBuffer
	resolveUC  *usecases.ResolveUseCase
	validateUC *usecases.ValidateUseCase
	server     *inboundhttp.Server
}

// New constructs all infrastructure components. The configuration file is
// not read here: it is loaded on every resolution.
func New(p Params) (*Container, error) {
	if p.Logger == nil {
		return nil, errors.New("wiring: logger is required")
	}
	traceLogger := p.TraceLogger
	if traceLogger == nil {
		traceLogger = p.Logger
	}

	repo := p.Repository
	if repo == nil {
		if p.ConfigPath == "" {
			return nil, errors.New("wiring: configuration path is required")
		}
		repo = filesystem.NewConfigFile(p.ConfigPath)
	}

	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}

	traceBuf := trace.NewRingBuffer(p.TraceSize)
	resolveUC := usecases.NewResolveUseCase(repo, clk, p.Logger, traceLogger, traceBuf)
	validateUC := usecases.NewValidateUseCase(repo, p.Logger)
	server := inboundhttp.NewServer(resolveUC, traceBuf, p.Logger)

	return &Container{
		logger:     p.Logger,
		repo:       repo,
		traceBuf:   traceBuf,
		resolveUC:  resolveUC,
		validateUC: validateUC,
		server:     server,
	}, nil
}

// Logger returns the logger passed at construction time.
func (c *Container) Logger() ports.Logger {
	return c.logger
}

// Repository returns the configuration repository.
func (c *Container) Repository() matcher.Repository {
	return c.repo
}

// Server returns the HTTP redirect server.
func (c *Container) Server() *inboundhttp.Server {
	return c.server
}

// ResolveUseCase returns the use case resolving one input.
func (c *Container) ResolveUseCase() *usecases.ResolveUseCase {
	return c.resolveUC
}

// ValidateUseCase returns the use case inspecting the configuration.
func (c *Container) ValidateUseCase() *usecases.ValidateUseCase {
	return c.validateUC
}

// TraceBuf returns the trace ring buffer.
func (c *Container) TraceBuf() *trace.RingBuffer {
	return c.traceBuf
}
