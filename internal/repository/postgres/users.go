package postgres

import (
	"context"
	"fmt"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

const userCols = `id, tenant_id, email, password_hash, name, role, created_at`

func scanUser(row scanner, u *models.User) error {
	return row.Scan(&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
}

// CreateUser inserts the account and makes sure its tenant row exists, in
// one transaction.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	tx, err := s.db.GetPool().Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO tenants (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, u.TenantID); err != nil {
		return models.User{}, fmt.Errorf("ensure tenant: %w", err)
	}

	var out models.User
	err = scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (tenant_id, email, password_hash, name, role)
		VALUES ($1, LOWER($2), $3, $4, $5)
		RETURNING `+userCols,
		u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role,
	), &out)
	if err != nil {
		if isDuplicateKey(err) {
			return models.User{}, repository.ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	if u.Role == "admin" || u.Role == "superadmin" {
		roleDoc := tenant.RoleDocAdmins
		if u.Role == "superadmin" {
			roleDoc = tenant.RoleDocSuperadmins
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO tenant_roles (tenant_id, role_doc, uid) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`, u.TenantID, roleDoc, out.ID); err != nil {
			return models.User{}, fmt.Errorf("grant role: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := scanUser(s.db.GetPool().QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = LOWER($1)`, email), &u)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := scanUser(s.db.GetPool().QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id), &u)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}
