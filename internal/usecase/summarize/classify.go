package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paper-digest/internal/domain/entity"
)

// classify turns a strategy return into exactly one outcome.
func classify(id, out string, err error, timeout, elapsed time.Duration) entity.StrategyResult {
	r := entity.StrategyResult{StrategyID: id, Elapsed: elapsed}

	switch {
	case err == nil:
		if trimmed := strings.TrimSpace(out); trimmed != "" {
			r.Outcome = entity.OutcomeSuccess
			r.Text = trimmed
			return r
		}
		r.Outcome = entity.OutcomeEmpty
		r.Reason = entity.ErrEmptyResult
	case errors.Is(err, entity.ErrEmptyResult):
		r.Outcome = entity.OutcomeEmpty
		r.Reason = err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, entity.ErrStrategyTimeout):
		r.Outcome = entity.OutcomeTimeout
		r.Reason = fmt.Errorf("%w: %s exceeded %v", entity.ErrStrategyTimeout, id, timeout)
	default:
		r.Outcome = entity.OutcomeFailure
		r.Reason = &entity.StrategyFailure{StrategyID: id, Err: err}
	}
	return r
}
