package services

import (
	"time"

	"taskboard/internal/apperr"
	"taskboard/internal/models"
)

// allowedTransitions is the full rule table for status changes. Pairs not
// listed here, including every self-pair, are rejected.
var allowedTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.StatusTodo:       {models.StatusInProgress, models.StatusArchived},
	models.StatusInProgress: {models.StatusDone, models.StatusArchived, models.StatusTodo},
	models.StatusDone:       {models.StatusArchived, models.StatusInProgress},
	models.StatusArchived:   {models.StatusTodo},
}

// Transition validates a status change against the rule table and returns the
// complete column set to persist with it: the new status plus any derived
// timestamp writes. Entering ARCHIVED stamps archived_at with now; leaving it
// clears the field. The same rule applies independently to completed_at and
// DONE. Columns absent from the returned map must be left untouched by the
// store, not nulled.
func Transition(current, next models.TaskStatus, now time.Time) (map[string]any, error) {
	allowed := false
	for _, status := range allowedTransitions[current] {
		if status == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.InvalidTransition(string(current), string(next))
	}

	changes := map[string]any{"status": next}

	if next == models.StatusArchived {
		changes["archived_at"] = now
	}
	if current == models.StatusArchived && next != models.StatusArchived {
		changes["archived_at"] = nil
	}
	if current != models.StatusDone && next == models.StatusDone {
		changes["completed_at"] = now
	}
	if current == models.StatusDone && next != models.StatusDone {
		changes["completed_at"] = nil
	}

	return changes, nil
}
