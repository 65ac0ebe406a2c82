package app

import (
	"context"
	"sort"

	"tableflip.dev/nag/pkg/timeutil"
)

// BucketReport summarizes one bucket's due pressure.
type BucketReport struct {
	Bucket  string
	Total   int
	Overdue int
	DueSoon int
	NoDue   int
}

// Report is a log-wide status summary: per-bucket due pressure plus the
// replay diagnostics and source row counts.
type Report struct {
	Buckets []BucketReport

	RowCount      int
	PayloadRows   int
	ValidNagRows  int
	PrimarySource string
	SourceCounts  map[string]int
}

// dueSoonDays bounds the "due soon" report column.
const dueSoonDays = 7

// Report summarizes the reconciled state for status output.
func (s *Service) Report(ctx context.Context) (Report, error) {
	state, err := s.Refresh(ctx)
	if err != nil {
		return Report{}, err
	}

	now := timeutil.NowMillis()
	soon := now + dueSoonDays*timeutil.MillisPerDay
	byBucket := map[string]*BucketReport{}
	for _, n := range state.Nags {
		br, ok := byBucket[n.Bucket]
		if !ok {
			br = &BucketReport{Bucket: n.Bucket}
			byBucket[n.Bucket] = br
		}
		br.Total++
		due, ok := s.resolver().NextDue(n, now)
		switch {
		case !ok:
			br.NoDue++
		case due <= now:
			br.Overdue++
		case due <= soon:
			br.DueSoon++
		}
	}

	buckets := make([]BucketReport, 0, len(byBucket))
	for _, br := range byBucket {
		buckets = append(buckets, *br)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Bucket < buckets[j].Bucket
	})

	report := Report{
		Buckets:       buckets,
		RowCount:      state.RowCount,
		PayloadRows:   state.PayloadRows,
		ValidNagRows:  state.ValidNagRows,
		PrimarySource: state.PrimarySource,
	}
	if s.Persistence != nil {
		report.SourceCounts = s.Persistence.SourceCounts(ctx)
	}
	return report, nil
}
