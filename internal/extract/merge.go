package extract

import "sort"

// ConfigEntry is the per-entity-type relevance row the external rules store
// hands back for a (category, source type) pair. The engine only reads these.
type ConfigEntry struct {
	EntityType          EntityType `json:"entity_type"`
	Priority            int        `json:"priority"`
	IsRequired          bool       `json:"is_required"`
	IsCritical          bool       `json:"is_critical"`
	ConfidenceThreshold int        `json:"confidence_threshold"`
	IsLinkable          bool       `json:"is_linkable"`
}

const defaultPriority = 50

// MergeAndPrioritize validates every candidate against the full source text,
// attaches configuration metadata, deduplicates by (type, normalized value)
// with first occurrence winning, and returns a deterministically ordered
// final list: priority descending, then confidence descending, ties broken
// by insertion order.
func MergeAndPrioritize(base, deep []Candidate, cfg map[EntityType]ConfigEntry, sourceText string, sourceType SourceType) ([]ValidatedEntity, Summary) {
	type dedupKey struct {
		entityType EntityType
		normalized string
	}

	seen := make(map[dedupKey]struct{})
	entities := make([]ValidatedEntity, 0, len(base)+len(deep))

	consume := func(candidates []Candidate) {
		for _, cand := range candidates {
			if !Validate(cand.EntityType, cand.RawValue, cand.Context, sourceText) {
				continue
			}

			entry, hasEntry := cfg[cand.EntityType]
			if hasEntry && cand.Confidence < entry.ConfidenceThreshold {
				continue
			}

			key := dedupKey{cand.EntityType, normalizeForGrounding(cand.RawValue)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			entity := ValidatedEntity{
				EntityType: cand.EntityType,
				Value:      cand.RawValue,
				Confidence: cand.Confidence,
				Priority:   defaultPriority,
				SourceType: sourceType,
				Context:    cand.Context,
			}
			if hasEntry {
				entity.Priority = entry.Priority
				entity.IsRequired = entry.IsRequired
				entity.IsCritical = entry.IsCritical
				entity.IsLinkable = entry.IsLinkable
			}
			entities = append(entities, entity)
		}
	}

	consume(base)
	consume(deep)

	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Priority != entities[j].Priority {
			return entities[i].Priority > entities[j].Priority
		}
		return entities[i].Confidence > entities[j].Confidence
	})

	return entities, summarize(entities, cfg)
}

func summarize(entities []ValidatedEntity, cfg map[EntityType]ConfigEntry) Summary {
	s := Summary{TotalExtracted: len(entities)}

	found := make(map[EntityType]bool, len(entities))
	confidenceSum := 0
	for _, e := range entities {
		found[e.EntityType] = true
		confidenceSum += e.Confidence
		if e.IsCritical {
			s.CriticalFound++
		}
		if e.IsLinkable {
			s.LinkableFound++
		}
	}

	var required []EntityType
	for entityType, entry := range cfg {
		if entry.IsRequired {
			required = append(required, entityType)
		}
	}
	sort.Slice(required, func(i, j int) bool { return required[i] < required[j] })

	for _, entityType := range required {
		if found[entityType] {
			s.RequiredFound++
		} else {
			s.RequiredMissing = append(s.RequiredMissing, entityType)
		}
	}

	if len(entities) > 0 {
		s.AvgConfidence = float64(confidenceSum) / float64(len(entities))
	}
	return s
}
