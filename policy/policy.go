// Package policy decides, for every (operation, entity, principal, row)
// triple, whether the operation may proceed. Predicates run inside the same
// transaction as the operation they guard. Anything without a registered
// predicate is denied.
package policy

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"peerlearn/models"
	"peerlearn/models/community"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ErrPermissionDenied is returned for every denied write. Denied reads are
// filtered silently instead, so a reader cannot tell "none exist" from
// "not authorized".
var ErrPermissionDenied = errors.New("permission denied")

// Predicate reports whether principal p may perform an action on row. It may
// query through tx; tx is the transaction the guarded operation runs in.
type Predicate func(tx *gorm.DB, p Principal, row any) (bool, error)

var registry = map[string]map[Action]Predicate{}

func register(entity string, action Action, pred Predicate) {
	if registry[entity] == nil {
		registry[entity] = map[Action]Predicate{}
	}
	registry[entity][action] = pred
}

// entityName maps a model row (value or pointer) to its registry key.
func entityName(row any) (string, error) {
	switch row.(type) {
	case models.User, *models.User:
		return "user", nil
	case models.Course, *models.Course:
		return "course", nil
	case models.Enrollment, *models.Enrollment:
		return "enrollment", nil
	case models.Review, *models.Review:
		return "review", nil
	case models.Certificate, *models.Certificate:
		return "certificate", nil
	case models.Badge, *models.Badge:
		return "badge", nil
	case models.UserBadge, *models.UserBadge:
		return "user_badge", nil
	case models.MentorRequest, *models.MentorRequest:
		return "mentor_request", nil
	case models.Session, *models.Session:
		return "session", nil
	case models.EarningsTransaction, *models.EarningsTransaction:
		return "earnings_transaction", nil
	case models.UserProject, *models.UserProject:
		return "user_project", nil
	case community.LearningCommunity, *community.LearningCommunity:
		return "learning_community", nil
	case community.CommunityMember, *community.CommunityMember:
		return "community_member", nil
	case community.CommunityResource, *community.CommunityResource:
		return "community_resource", nil
	case community.CommunitySession, *community.CommunitySession:
		return "community_session", nil
	default:
		return "", fmt.Errorf("policy: unknown entity %T", row)
	}
}

// Can evaluates the registered predicate for (row's entity, action).
// Missing registrations deny.
func Can(tx *gorm.DB, p Principal, action Action, row any) (bool, error) {
	entity, err := entityName(row)
	if err != nil {
		return false, err
	}
	actions, ok := registry[entity]
	if !ok {
		return false, nil
	}
	pred, ok := actions[action]
	if !ok {
		return false, nil
	}
	return pred(tx, p, row)
}

// Create inserts row through tx after the create predicate allows it.
func Create(tx *gorm.DB, p Principal, row any) error {
	allowed, err := Can(tx, p, ActionCreate, row)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return tx.Create(row).Error
}

// Update saves row through tx after the update predicate allows it. The
// predicate sees the row being written.
func Update(tx *gorm.DB, p Principal, row any) error {
	allowed, err := Can(tx, p, ActionUpdate, row)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return tx.Save(row).Error
}

// Delete removes row through tx after the delete predicate allows it.
// No entity grants delete except user projects.
func Delete(tx *gorm.DB, p Principal, row any) error {
	allowed, err := Can(tx, p, ActionDelete, row)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return tx.Delete(row).Error
}

// FilterReadable drops rows the principal may not read. A fully denied
// result is an empty slice, never an error.
func FilterReadable[T any](tx *gorm.DB, p Principal, rows []T) ([]T, error) {
	visible := make([]T, 0, len(rows))
	for i := range rows {
		allowed, err := Can(tx, p, ActionRead, &rows[i])
		if err != nil {
			return nil, err
		}
		if allowed {
			visible = append(visible, rows[i])
		}
	}
	return visible, nil
}

// CanRead reports whether a single row is readable; used where handlers
// fetch one row by id.
func CanRead(tx *gorm.DB, p Principal, row any) (bool, error) {
	return Can(tx, p, ActionRead, row)
}
