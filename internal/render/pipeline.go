// Package render drives a snippet through normalize, transpile and the sandbox,
// degrading to a fixed template whenever a stage fails.
package render

import (
	"context"
	"strings"
	"time"

	"genesis-backend/internal/normalize"
	"genesis-backend/internal/sandbox"
	"genesis-backend/internal/telemetry"
	"genesis-backend/internal/templates"
	"genesis-backend/internal/transpile"
	"genesis-backend/internal/ui"
	"genesis-backend/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type State string

const (
	StateReceived          State = "received"
	StateNormalizing       State = "normalizing"
	StateTranspiling       State = "transpiling"
	StateExecuting         State = "executing"
	StateRendered          State = "rendered"
	StateFallbackRendering State = "fallback-rendering"
)

// Artifact is the outcome of one Render call. Template is empty when the
// snippet itself was executed.
type Artifact struct {
	Root         *ui.Node `json:"-"`
	HTML         string   `json:"html"`
	Template     string   `json:"template,omitempty"`
	Fallback     bool     `json:"fallback"`
	States       []State  `json:"states"`
	Diagnostic   string   `json:"diagnostic,omitempty"`
	CleanCode    string   `json:"cleanCode,omitempty"`
	CompiledCode string   `json:"compiledCode,omitempty"`
}

func (a *Artifact) enter(s State) {
	a.States = append(a.States, s)
}

// StateNames returns the visited states as strings.
func (a *Artifact) StateNames() []string {
	names := make([]string, len(a.States))
	for i, s := range a.States {
		names[i] = string(s)
	}
	return names
}

type Pipeline struct {
	executor *sandbox.Executor
	props    map[string]interface{}

	tracer   trace.Tracer
	duration metric.Float64Histogram
	outcomes metric.Int64Counter
}

type Option func(*Pipeline)

// WithProps sets the props every component is rendered with.
func WithProps(props map[string]interface{}) Option {
	return func(p *Pipeline) { p.props = props }
}

func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(p *Pipeline) {
		if tel == nil {
			return
		}
		p.tracer = tel.Tracer
		if h, err := tel.Meter.Float64Histogram("render.duration",
			metric.WithDescription("Snippet render duration"),
			metric.WithUnit("ms")); err == nil {
			p.duration = h
		}
		if c, err := tel.Meter.Int64Counter("render.outcomes",
			metric.WithDescription("Renders by path taken")); err == nil {
			p.outcomes = c
		}
	}
}

func NewPipeline(executor *sandbox.Executor, opts ...Option) *Pipeline {
	if executor == nil {
		executor = sandbox.NewExecutor(sandbox.DefaultTimeout)
	}
	p := &Pipeline{executor: executor}
	WithTelemetry(telemetry.Noop())(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render never fails: any stage error routes to the template engine and is
// kept as the artifact's diagnostic.
func (p *Pipeline) Render(ctx context.Context, snippet string) *Artifact {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "render.pipeline")
	defer span.End()

	a := &Artifact{}
	a.enter(StateReceived)

	a.enter(StateNormalizing)
	scrubbed := normalize.Scrub(snippet)
	a.CleanCode = scrubbed.Code

	root, err := p.execute(a, scrubbed)
	if err == nil {
		a.HTML, err = ui.SafeHTML(root)
	}
	if err != nil {
		a.Diagnostic = err.Error()
		p.fallback(a, snippet)
		span.SetStatus(codes.Error, "fallback")
		logger.WithFields(map[string]interface{}{
			"template": a.Template,
			"states":   strings.Join(a.StateNames(), ">"),
		}).Debugf("Render fell back: %v", err)
	} else {
		a.Root = root
	}
	a.enter(StateRendered)

	path := "executed"
	if a.Fallback {
		path = "fallback"
	}
	attrs := metric.WithAttributes(attribute.String("path", path), attribute.String("template", a.Template))
	span.SetAttributes(attribute.String("render.path", path), attribute.Int("render.snippet_bytes", len(snippet)))
	p.outcomes.Add(ctx, 1, attrs)
	p.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	return a
}

func (p *Pipeline) execute(a *Artifact, scrubbed normalize.Result) (*ui.Node, error) {
	a.enter(StateTranspiling)
	compiled, err := transpile.Transpile(scrubbed.Code)
	if err != nil {
		return nil, err
	}
	result := &transpile.CompileResult{
		CompiledCode: strings.TrimSpace(compiled),
		CleanCode:    scrubbed.Code,
		ExportName:   scrubbed.ExportName,
	}
	a.CompiledCode = result.CompiledCode

	a.enter(StateExecuting)
	component, err := p.executor.Execute(result.Executable())
	if err != nil {
		return nil, err
	}
	return component.Render(p.props)
}

func (p *Pipeline) fallback(a *Artifact, snippet string) {
	a.enter(StateFallbackRendering)
	a.Fallback = true

	t := templates.Select(snippet)
	a.Template = t.Name
	a.Root = t.Root
	html, err := ui.SafeHTML(t.Root)
	if err != nil {
		// templates are static; this only trips on a broken template tree
		logger.Errorf("Template %s failed to render: %v", t.Name, err)
		return
	}
	a.HTML = html
}
