package analyze

// Aggregate is a count plus exact byte total for one removal reason.
// Sizes are aggregated in whole bytes; rounding happens only at the
// report layer.
type Aggregate struct {
	Count     int   `json:"count"`
	SizeBytes int64 `json:"size_bytes"`
}

func (a *Aggregate) add(size int64) {
	a.Count++
	a.SizeBytes += size
}

// Plan is the cleanup decision for one classified entry set. Keep and
// Remove partition the input exactly: no entry appears in both, none
// is omitted.
type Plan struct {
	Keep   []Entry
	Remove []Entry

	// KeepPaths preserves archive iteration order for the rewriter.
	KeepPaths []string

	// Reasons attributes every removed entry to exactly one reason.
	Reasons map[RemovalReason]Aggregate

	// Oversized is informational and non-exclusive: it counts every
	// flagged entry, kept or removed.
	Oversized Aggregate
}

// BuildPlan partitions classified entries into keep and remove sets
// and computes per-reason aggregates. Oversized entries pass through
// untouched unless some other flag removes them.
func BuildPlan(entries []Entry) *Plan {
	plan := &Plan{
		Keep:      make([]Entry, 0, len(entries)),
		Remove:    make([]Entry, 0),
		KeepPaths: make([]string, 0, len(entries)),
		Reasons:   make(map[RemovalReason]Aggregate),
	}

	for _, e := range entries {
		if e.IsOversized {
			plan.Oversized.add(e.Size)
		}

		reason, removed := AttributeRemoval(&e)
		if removed {
			agg := plan.Reasons[reason]
			agg.add(e.Size)
			plan.Reasons[reason] = agg
			plan.Remove = append(plan.Remove, e)
			continue
		}

		plan.Keep = append(plan.Keep, e)
		plan.KeepPaths = append(plan.KeepPaths, e.Path)
	}

	return plan
}

// KeptSizeBytes returns the exact byte total of the keep set.
func (p *Plan) KeptSizeBytes() int64 {
	var total int64
	for _, e := range p.Keep {
		total += e.Size
	}
	return total
}

// RemovedSizeBytes returns the exact byte total of the remove set.
func (p *Plan) RemovedSizeBytes() int64 {
	var total int64
	for _, e := range p.Remove {
		total += e.Size
	}
	return total
}
