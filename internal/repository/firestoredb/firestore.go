// Package firestoredb implements repository.Backend on Cloud Firestore using
// the tenant-namespaced layout the admin panel writes:
//
//	tenants/{t}/clients/{id}
//	tenants/{t}/clients/{id}/checks|payments|anamnesi/{id}
//	tenants/{t}/notifications/{id}
//	tenants/{t}/roles/superadmins|admins   {uids: [...]}
//	users/{id}                             panel accounts (JWT auth mode)
package firestoredb

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

const usersCollection = "users"

// Store is a repository.Backend on a Firestore client.
type Store struct {
	client *firestore.Client
	paths  tenant.Resolver
	now    func() time.Time
}

var _ repository.Backend = (*Store)(nil)

// New wraps a Firestore client. paths supplies the default tenant.
func New(client *firestore.Client, paths tenant.Resolver) *Store {
	return &Store{client: client, paths: paths, now: time.Now}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) collection(tenantID, name string) *firestore.CollectionRef {
	return s.client.Collection(s.paths.CollectionPath(tenantID, name))
}

func (s *Store) sub(tenantID, clientID, name string) *firestore.CollectionRef {
	return s.client.Collection(s.paths.SubcollectionPath(tenantID, tenant.Clients, clientID, name))
}

func (s *Store) stamp() *time.Time {
	t := s.now()
	return &t
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// mapErr maps NotFound to repository.ErrNotFound and wraps everything else.
func mapErr(op string, err error) error {
	if isNotFound(err) {
		return repository.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// collect drains a document iterator, decoding each snapshot with decode.
func collect[T any](iter *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer iter.Stop()
	out := []T{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(snap)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
		}
		out = append(out, v)
	}
}
