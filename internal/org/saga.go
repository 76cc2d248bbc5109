package org

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// step is one forward action in a multi-store operation, optionally paired
// with a compensating action that undoes it.
type step struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs steps in order. When a step fails, the compensations of the steps
// that already completed run in reverse order. This is best-effort rollback,
// not a transaction: a compensation can itself fail, in which case its error
// is joined to the original one and logged, never swallowed, since it leaves
// orphaned state for the partition audit to find.
type saga struct {
	logger *slog.Logger
	steps  []step
}

func (s *saga) add(st step) {
	s.steps = append(s.steps, st)
}

func (s *saga) run(ctx context.Context) error {
	for i, st := range s.steps {
		if err := st.run(ctx); err != nil {
			err = fmt.Errorf("%s: %w", st.name, err)
			return errors.Join(err, s.rollback(ctx, i-1))
		}
	}
	return nil
}

func (s *saga) rollback(ctx context.Context, from int) error {
	var errs []error
	for i := from; i >= 0; i-- {
		st := s.steps[i]
		if st.compensate == nil {
			continue
		}
		if err := st.compensate(ctx); err != nil {
			s.logger.Error("compensation failed",
				"step", st.name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("compensating %s: %w", st.name, err))
		}
	}
	return errors.Join(errs...)
}
