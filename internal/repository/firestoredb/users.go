package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

func decodeUser(snap *firestore.DocumentSnapshot) (models.User, error) {
	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return u, err
	}
	u.ID = snap.Ref.ID
	return u, nil
}

// CreateUser stores the account under users/ and, for admin roles, adds the
// new id to the tenant's role document, in one transaction.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	users := s.client.Collection(usersCollection)
	ref := users.NewDoc()
	u.Email = strings.ToLower(u.Email)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(users.Where("email", "==", u.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return repository.ErrDuplicate
		}

		if err := tx.Create(ref, u); err != nil {
			return err
		}

		roleDoc := ""
		switch u.Role {
		case "superadmin":
			roleDoc = tenant.RoleDocSuperadmins
		case "admin":
			roleDoc = tenant.RoleDocAdmins
		}
		if roleDoc == "" {
			return nil
		}
		roleRef := s.client.Doc(s.paths.RoleDocPath(u.TenantID, roleDoc))
		return tx.Set(roleRef, map[string]any{"uids": firestore.ArrayUnion(ref.ID)}, firestore.MergeAll)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, err
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	u.ID = ref.ID
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	iter := s.client.Collection(usersCollection).
		Where("email", "==", strings.ToLower(email)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return models.User{}, repository.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return decodeUser(snap)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return models.User{}, mapErr("get user", err)
	}
	return decodeUser(snap)
}
