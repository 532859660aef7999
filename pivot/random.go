package pivot

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hupe1980/metrigo/core"
)

// Compile-time check to ensure Random satisfies the Chooser interface.
var _ Chooser = (*Random)(nil)

// RandomOptions contains configuration options for the random chooser.
type RandomOptions struct {
	// Seed fixes the random source for reproducible selection.
	// If 0, a time-based seed is used.
	Seed int64

	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultRandomOptions contains the default configuration options for the
// random chooser.
var DefaultRandomOptions = RandomOptions{}

// Random draws pivots uniformly at random from the sample stream, without
// replacement within one selection call.
type Random struct {
	*base
	rng *rand.Rand
}

// NewRandom creates a random pivot chooser.
func NewRandom(optFns ...func(o *RandomOptions)) *Random {
	opts := DefaultRandomOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &Random{
		base: newBase(opts.Logger),
		rng:  rand.New(rand.NewSource(seed)),
	}
	c.sel = c.selectPivots
	return c
}

// selectPivots reservoir-samples count objects from the stream. Every
// stream position has equal probability of ending up in the reservoir, and
// one call never picks the same position twice.
func (c *Random) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	reservoir := make([]core.Object, 0, count)
	seen := 0
	for obj := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(reservoir) < count {
			reservoir = append(reservoir, obj)
		} else if j := c.rng.Intn(seen + 1); j < count {
			reservoir[j] = obj
		}
		seen++
	}
	if len(reservoir) < count {
		return fmt.Errorf("%w: need %d pivots, sampled %d objects", ErrNoCandidates, count, len(reservoir))
	}
	for _, obj := range reservoir {
		c.addPivot(obj)
	}
	c.logger.Debug("selected random pivots", "count", count, "sampled", seen)
	return nil
}
