package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Summary tallies the outcome of one run. Every processed repository lands in
// exactly one of Cloned, AlreadyPresent or Failed; the remote step of forks is
// counted separately in Linked, Skipped and LinkFailed.
type Summary struct {
	Total          int
	Cloned         int
	AlreadyPresent int
	Failed         int
	Linked         int
	Skipped        int
	LinkFailed     int
	Interrupted    bool
	CloneDurations []time.Duration
}

// MedianClone returns the median duration of fresh clones, or zero when none happened.
func (s *Summary) MedianClone() time.Duration {
	median, err := stats.Median(s.seconds())
	if err != nil {
		return 0
	}
	return time.Duration(median * float64(time.Second))
}

// MaxClone returns the slowest fresh clone, or zero when none happened.
func (s *Summary) MaxClone() time.Duration {
	slowest, err := stats.Max(s.seconds())
	if err != nil {
		return 0
	}
	return time.Duration(slowest * float64(time.Second))
}

func (s *Summary) seconds() stats.Float64Data {
	data := make(stats.Float64Data, 0, len(s.CloneDurations))
	for _, d := range s.CloneDurations {
		data = append(data, d.Seconds())
	}
	return data
}

// String renders the completion line.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d repositories: %d cloned, %d already present, %d failed; upstream remotes: %d linked, %d skipped, %d failed",
		s.Total, s.Cloned, s.AlreadyPresent, s.Failed, s.Linked, s.Skipped, s.LinkFailed)
	if len(s.CloneDurations) > 0 {
		fmt.Fprintf(&b, " (median clone %v, slowest %v)",
			s.MedianClone().Round(time.Millisecond), s.MaxClone().Round(time.Millisecond))
	}
	if s.Interrupted {
		b.WriteString(" [interrupted]")
	}
	return b.String()
}
