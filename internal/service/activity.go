package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// ActivityService records domain events for after-the-fact traceability.
// Recording is best effort: a write failure is logged and swallowed, never
// propagated to the operation it is attached to.
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Record appends one activity entry.
func (s *ActivityService) Record(ctx context.Context, category, action string, level domain.ActivityLevel, actorID string, role domain.ActorRole, targetID string, details map[string]string) {
	entry := &domain.ActivityEntry{
		ID:        uuid.New().String(),
		Category:  category,
		Action:    action,
		Level:     level,
		ActorID:   actorID,
		ActorRole: role,
		TargetID:  targetID,
		Context:   details,
		CreatedAt: time.Now(),
	}

	if err := s.activityRepo.Append(ctx, entry); err != nil {
		log.Printf("activity log write failed: category=%s action=%s target=%s: %v", category, action, targetID, err)
	}
}

// History retrieves the recorded events about an entity, newest first.
func (s *ActivityService) History(ctx context.Context, targetID string) ([]*domain.ActivityEntry, error) {
	return s.activityRepo.ListByTarget(ctx, targetID)
}
