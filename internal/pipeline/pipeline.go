package pipeline

import (
	"context"
	"fmt"

	"github.com/mlowell/networth-tracker/internal/income"
	"github.com/mlowell/networth-tracker/internal/logger"
	"github.com/mlowell/networth-tracker/internal/sheets"
)

// Pipeline runs a sequence of steps against a shared state.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// NewUpdatePipeline wires the full QFX -> spreadsheet update flow.
func NewUpdatePipeline(categorizer *income.Categorizer, svc sheets.Service, writer *sheets.Writer) *Pipeline {
	return NewPipeline(
		&DiscoverFilesStep{},
		&ParseFilesStep{},
		&CategorizeStep{Categorizer: categorizer},
		&ReadSheetsStep{Service: svc},
		&LocateColumnsStep{},
		&WriteStep{Writer: writer},
	)
}

// NewReportPipeline wires the local-only flow: parse and categorize,
// without touching the spreadsheet.
func NewReportPipeline(categorizer *income.Categorizer) *Pipeline {
	return NewPipeline(
		&DiscoverFilesStep{},
		&ParseFilesStep{},
		&CategorizeStep{Categorizer: categorizer},
	)
}

func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	for i, step := range p.steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		log.Debug().Int("step", i+1).Msgf("Executing pipeline step %T", step)
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d (%T) failed: %w", i+1, step, err)
		}
	}
	return nil
}
