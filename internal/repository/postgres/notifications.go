package postgres

import (
	"context"
	"fmt"
	"time"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
)

const notificationCols = `id, user_id, type, severity, title, message, client_id, client_name,
	days_left, days_overdue, days_since_check, action_url, created_at, read`

func scanNotification(row scanner, n *models.Notification) error {
	return row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Severity, &n.Title, &n.Message,
		&n.ClientID, &n.ClientName,
		&n.DaysLeft, &n.DaysOverdue, &n.DaysSinceCheck,
		&n.ActionURL, &n.CreatedAt, &n.Read,
	)
}

func (s *Store) CreateNotification(ctx context.Context, tenantID string, n models.Notification) (models.Notification, error) {
	var createdAt any
	if !n.CreatedAt.IsZero() {
		createdAt = n.CreatedAt
	}

	var out models.Notification
	err := scanNotification(s.db.GetPool().QueryRow(ctx, `
		INSERT INTO notifications (
			tenant_id, user_id, type, severity, title, message, client_id, client_name,
			days_left, days_overdue, days_since_check, action_url, created_at, read
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13::timestamptz, NOW()), $14)
		RETURNING `+notificationCols,
		tenantID, n.UserID, n.Type, n.Severity, n.Title, n.Message, n.ClientID, n.ClientName,
		n.DaysLeft, n.DaysOverdue, n.DaysSinceCheck, n.ActionURL, createdAt, n.Read,
	), &out)
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return out, nil
}

func (s *Store) HasNotificationSince(ctx context.Context, tenantID, userID, clientID, nType string, since time.Time) (bool, error) {
	var exists bool
	err := s.db.GetPool().QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE tenant_id  = $1
			  AND user_id    = $2
			  AND client_id  = $3
			  AND type       = $4
			  AND created_at >= $5
		)`, tenantID, userID, clientID, nType, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return exists, nil
}

func (s *Store) ListNotifications(ctx context.Context, tenantID, userID string, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationCols + ` FROM notifications
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC`
	args := []any{tenantID, userID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, tenantID, userID string) (int, error) {
	var count int
	err := s.db.GetPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE tenant_id = $1 AND user_id = $2 AND read = FALSE`,
		tenantID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (s *Store) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	tag, err := s.db.GetPool().Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE tenant_id = $1 AND user_id = $2 AND id = $3`,
		tenantID, userID, notificationID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, tenantID, userID string) (int, error) {
	tag, err := s.db.GetPool().Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE tenant_id = $1 AND user_id = $2 AND read = FALSE`,
		tenantID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
