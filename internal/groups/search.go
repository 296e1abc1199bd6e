package groups

import (
	"context"
	"regexp"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/models"
)

// SearchForGroup returns summaries of the groups whose ID matches pattern, a
// case-insensitive regular expression. An empty pattern matches every group.
// The whole collection is scanned.
func (s *Service) SearchForGroup(ctx context.Context, pattern string) ([]models.GroupSummary, error) {
	const op = "SearchForGroup"

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, apperr.Validationf(op, "invalid search pattern %q: %v", pattern, err)
	}

	snaps, err := s.store.Query(ctx, Collection)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	out := make([]models.GroupSummary, 0)
	for _, snap := range snaps {
		if !re.MatchString(snap.ID()) {
			continue
		}
		g, err := decodeGroup(snap)
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		out = append(out, g.Summary())
	}
	return out, nil
}
