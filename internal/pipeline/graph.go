package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dharmasatrya/tripassistant/internal/metrics"
	"github.com/dharmasatrya/tripassistant/internal/models"
)

// End is the terminal node of a Graph.
const End = "__end__"

// DefaultMaxTransitions bounds the steps a single turn may run.
const DefaultMaxTransitions = 25

var (
	ErrStepLimit   = errors.New("step limit exceeded")
	ErrUnknownStep = errors.New("unknown step")
)

// StepFunc evolves the state. Steps degrade the state instead of returning errors.
type StepFunc func(ctx context.Context, s *models.SearchState)

// Branch picks the next node from the state.
type Branch func(s *models.SearchState) string

// Graph sequences named steps through static edges and conditional branches.
type Graph struct {
	entry          string
	steps          map[string]StepFunc
	edges          map[string]string
	branches       map[string]Branch
	maxTransitions int
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

func NewGraph(entry string, logger *slog.Logger, m *metrics.Metrics) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		entry:          entry,
		steps:          map[string]StepFunc{},
		edges:          map[string]string{},
		branches:       map[string]Branch{},
		maxTransitions: DefaultMaxTransitions,
		logger:         logger,
		metrics:        m,
	}
}

func (g *Graph) AddStep(name string, fn StepFunc) *Graph {
	g.steps[name] = fn
	return g
}

func (g *Graph) AddEdge(from, to string) *Graph {
	g.edges[from] = to
	return g
}

// AddBranch makes the node after from depend on the state. It takes
// precedence over a static edge.
func (g *Graph) AddBranch(from string, b Branch) *Graph {
	g.branches[from] = b
	return g
}

func (g *Graph) SetMaxTransitions(n int) *Graph {
	g.maxTransitions = n
	return g
}

// Run walks the graph from the entry node until End. Every executed step is
// appended to s.Trace.
func (g *Graph) Run(ctx context.Context, s *models.SearchState) error {
	node := g.entry
	for n := 0; node != End; n++ {
		if n >= g.maxTransitions {
			return fmt.Errorf("%w: %d transitions, at %s", ErrStepLimit, n, node)
		}
		fn, ok := g.steps[node]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownStep, node)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		g.runStep(ctx, node, fn, s)
		g.metrics.ObserveStep(node, time.Since(start))
		s.Trace = append(s.Trace, node)

		node = g.next(node, s)
	}
	return nil
}

func (g *Graph) next(node string, s *models.SearchState) string {
	if b, ok := g.branches[node]; ok {
		return b(s)
	}
	if to, ok := g.edges[node]; ok {
		return to
	}
	return End
}

func (g *Graph) runStep(ctx context.Context, name string, fn StepFunc, s *models.SearchState) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("step panicked", "step", name, "thread", s.ThreadID, "panic", r)
			s.Fail(name, 0, fmt.Errorf("panic: %v", r))
		}
	}()
	g.logger.Debug("running step", "step", name, "thread", s.ThreadID)
	fn(ctx, s)
}

// NewTravelGraph wires the conversational search:
//
//	intake -> validate -> [follow-up ends the turn] -> normalize -> build_request
//	-> token -> flight_search -> hotel_location -> hotel_search
//	-> package_assembly -> summary -> present
func NewTravelGraph(p *Pipeline) *Graph {
	g := NewGraph(StepIntake, p.logger, p.metrics)

	g.AddStep(StepIntake, p.Intake).
		AddStep(StepValidate, p.Validate).
		AddStep(StepNormalize, p.Normalize).
		AddStep(StepBuildRequest, p.BuildRequest).
		AddStep(StepToken, p.FetchToken).
		AddStep(StepFlights, p.SearchFlights).
		AddStep(StepHotelLocation, p.LocateHotels).
		AddStep(StepHotels, p.SearchHotels).
		AddStep(StepPackages, p.AssemblePackages).
		AddStep(StepSummary, p.Summarize).
		AddStep(StepPresent, p.Present)

	g.AddEdge(StepIntake, StepValidate)
	g.AddBranch(StepValidate, func(s *models.SearchState) string {
		route := Decide(s)
		p.metrics.Turn(string(route))
		if route == RouteFollowup {
			return End
		}
		return StepNormalize
	})
	g.AddBranch(StepNormalize, func(s *models.SearchState) string {
		if s.NeedsFollowup {
			return End
		}
		return StepBuildRequest
	})
	g.AddEdge(StepBuildRequest, StepToken).
		AddEdge(StepToken, StepFlights).
		AddEdge(StepFlights, StepHotelLocation).
		AddEdge(StepHotelLocation, StepHotels).
		AddEdge(StepHotels, StepPackages).
		AddEdge(StepPackages, StepSummary).
		AddEdge(StepSummary, StepPresent).
		AddEdge(StepPresent, End)

	return g
}
