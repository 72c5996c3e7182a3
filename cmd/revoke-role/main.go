// Command revoke-role removes a user from a tenant's superadmins and admins
// role documents in Firestore.
//
//	revoke-role -tenant studio -uid abc123
//
// The two documents are updated one after the other. If the second update
// fails the first is not rolled back; rerunning the command is safe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"coaching-backend/internal/config"
	"coaching-backend/internal/firebaseapp"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/repository/firestoredb"
	"coaching-backend/internal/tenant"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant ID")
	uid := flag.String("uid", "", "user ID to remove")
	flag.Parse()

	if err := realMain(*tenantID, *uid); err != nil {
		log.Printf("revoke-role: %v", err)
		os.Exit(1)
	}
}

func realMain(tenantID, uid string) error {
	if tenantID == "" || uid == "" {
		return errors.New("both -tenant and -uid are required")
	}

	fbCfg, err := config.LoadFirebase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	app, err := firebaseapp.New(ctx, fbCfg)
	if err != nil {
		return err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("firestore client: %w", err)
	}
	store := firestoredb.New(client, tenant.NewResolver(tenantID))
	defer store.Close()

	return revoke(ctx, store, tenantID, uid, os.Stdout)
}

// revoke drops uid from superadmins, then admins.
func revoke(ctx context.Context, dir repository.TenantDirectory, tenantID, uid string, out io.Writer) error {
	for _, roleDoc := range []string{tenant.RoleDocSuperadmins, tenant.RoleDocAdmins} {
		removed, err := dir.RemoveRoleMember(ctx, tenantID, roleDoc, uid)
		if err != nil {
			return fmt.Errorf("update %s: %w", roleDoc, err)
		}
		if removed {
			fmt.Fprintf(out, "removed %s from tenants/%s/roles/%s\n", uid, tenantID, roleDoc)
		} else {
			fmt.Fprintf(out, "%s not in tenants/%s/roles/%s\n", uid, tenantID, roleDoc)
		}
	}
	return nil
}
