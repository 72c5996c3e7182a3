package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

func decodeNotification(snap *firestore.DocumentSnapshot) (models.Notification, error) {
	var n models.Notification
	if err := snap.DataTo(&n); err != nil {
		return n, err
	}
	n.ID = snap.Ref.ID
	return n, nil
}

// CreateNotification writes n. A zero CreatedAt is filled in by the server.
func (s *Store) CreateNotification(ctx context.Context, tenantID string, n models.Notification) (models.Notification, error) {
	ref, _, err := s.collection(tenantID, tenant.Notifications).Add(ctx, n)
	if err != nil {
		return models.Notification{}, fmt.Errorf("add notification: %w", err)
	}
	n.ID = ref.ID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	return n, nil
}

func (s *Store) HasNotificationSince(ctx context.Context, tenantID, userID, clientID, nType string, since time.Time) (bool, error) {
	iter := s.collection(tenantID, tenant.Notifications).
		Where("userId", "==", userID).
		Where("clientId", "==", clientID).
		Where("type", "==", nType).
		Where("createdAt", ">=", since).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query notifications: %w", err)
	}
	return true, nil
}

func (s *Store) ListNotifications(ctx context.Context, tenantID, userID string, limit int) ([]models.Notification, error) {
	q := s.collection(tenantID, tenant.Notifications).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	out, err := collect(q.Documents(ctx), decodeNotification)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *Store) unread(ctx context.Context, tenantID, userID string) ([]*firestore.DocumentSnapshot, error) {
	return s.collection(tenantID, tenant.Notifications).
		Where("userId", "==", userID).
		Where("read", "==", false).
		Documents(ctx).
		GetAll()
}

func (s *Store) UnreadCount(ctx context.Context, tenantID, userID string) (int, error) {
	snaps, err := s.unread(ctx, tenantID, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return len(snaps), nil
}

func (s *Store) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	ref := s.collection(tenantID, tenant.Notifications).Doc(notificationID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		owner, err := snap.DataAt("userId")
		if err != nil || owner != userID {
			return repository.ErrNotFound
		}
		return tx.Update(ref, []firestore.Update{{Path: "read", Value: true}})
	})
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err != nil {
		return mapErr("mark read", err)
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, tenantID, userID string) (int, error) {
	snaps, err := s.unread(ctx, tenantID, userID)
	if err != nil {
		return 0, fmt.Errorf("query unread: %w", err)
	}
	if len(snaps) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(snaps))
	for _, snap := range snaps {
		job, err := bw.Update(snap.Ref, []firestore.Update{{Path: "read", Value: true}})
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("queue update: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	updated := 0
	for _, job := range jobs {
		if _, err := job.Results(); err == nil {
			updated++
		}
	}
	return updated, nil
}
