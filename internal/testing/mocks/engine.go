// Package mocks provides shared test doubles for colorparity packages.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/engine"
)

// Engine implements engine.Runner for testing.
// Use NewEngine() to create instances with a fluent builder API.
type Engine struct {
	name       string
	commit     string
	buildFlags string
	outputs    map[string]*engine.Output
	errs       map[string]error

	// RunFunc, if set, replaces the scripted outputs entirely.
	RunFunc func(ctx context.Context, caseID string) (*engine.Output, error)

	mu    sync.Mutex
	calls []string
}

// NewEngine creates a new mock engine with the given name.
func NewEngine(name string) *Engine {
	return &Engine{
		name:    name,
		outputs: make(map[string]*engine.Output),
		errs:    make(map[string]error),
	}
}

// WithCommit sets the commit reported in every output.
func (m *Engine) WithCommit(commit string) *Engine {
	m.commit = commit
	return m
}

// WithBuildFlags sets the build flags reported in every output.
func (m *Engine) WithBuildFlags(flags string) *Engine {
	m.buildFlags = flags
	return m
}

// WithColors scripts the samples returned for caseID.
func (m *Engine) WithColors(caseID string, colors ...color.EngineColor) *Engine {
	m.outputs[caseID] = &engine.Output{
		Engine: m.name,
		Count:  len(colors),
		Colors: colors,
	}
	return m
}

// WithOKLab scripts samples for caseID from OKLab values; sRGB is derived.
func (m *Engine) WithOKLab(caseID string, labs ...color.OKLab) *Engine {
	colors := make([]color.EngineColor, len(labs))
	for i, lab := range labs {
		colors[i] = color.EngineColor{OKLab: lab, SRGB: lab.ToSRGB()}
	}
	return m.WithColors(caseID, colors...)
}

// WithOutput scripts a complete output for caseID.
func (m *Engine) WithOutput(caseID string, out *engine.Output) *Engine {
	m.outputs[caseID] = out
	return m
}

// WithError makes Run fail for caseID.
func (m *Engine) WithError(caseID string, err error) *Engine {
	m.errs[caseID] = err
	return m
}

// WithRunFunc sets the function called by Run.
func (m *Engine) WithRunFunc(fn func(ctx context.Context, caseID string) (*engine.Output, error)) *Engine {
	m.RunFunc = fn
	return m
}

// engine.Runner interface implementation

func (m *Engine) Name() string { return m.name }

func (m *Engine) Run(ctx context.Context, caseID string) (*engine.Output, error) {
	m.mu.Lock()
	m.calls = append(m.calls, caseID)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, caseID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errs[caseID]; ok {
		return nil, err
	}
	out, ok := m.outputs[caseID]
	if !ok {
		return nil, fmt.Errorf("%s: no output scripted for case %q", m.name, caseID)
	}

	cp := *out
	if cp.Commit == "" {
		cp.Commit = m.commit
	}
	if cp.BuildFlags == "" {
		cp.BuildFlags = m.buildFlags
	}
	return &cp, nil
}

// Test inspection methods

// Calls returns the case IDs Run was called with, in order.
func (m *Engine) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.calls))
	copy(result, m.calls)
	return result
}

// Reset clears call tracking state.
func (m *Engine) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}
