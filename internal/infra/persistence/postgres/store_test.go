package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"tailorbook/internal/infra/persistence/postgres/testutil"
	"tailorbook/pkg/domain"
)

func TestNewStoreCreatesStateTable(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore(context.Background(), "", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.DB() != db {
		t.Fatalf("expected stub db")
	}
	var sawDDL bool
	for _, stmt := range conn.Statements() {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS STATE") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got %v", conn.Statements())
	}
}

func TestRunInTransactionPersistsAndReloads(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore(context.Background(), "ignored", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	var client domain.Client
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var e error
		client, e = tx.AddClient(domain.ClientInput{FullName: "Pg Client"})
		return e
	}); err != nil {
		t.Fatalf("add client: %v", err)
	}
	payload, ok := conn.Bucket("clients")
	if !ok {
		t.Fatalf("expected clients bucket persisted")
	}
	var persisted []domain.Client
	if err := json.Unmarshal(payload, &persisted); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != client.ID {
		t.Fatalf("unexpected persisted clients %+v", persisted)
	}
	for _, bucket := range postgresBuckets {
		if _, ok := conn.Bucket(bucket); !ok {
			t.Fatalf("expected bucket %s persisted", bucket)
		}
	}

	reloaded, err := NewStore(context.Background(), "ignored", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.GetClient(client.ID); !ok {
		t.Fatalf("expected client hydrated from snapshot")
	}
}

func TestNewStoreErrors(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("boom") })
		defer restore()
		if _, err := NewStore(context.Background(), "", nil); err == nil || !strings.Contains(err.Error(), "open postgres") {
			t.Fatalf("expected open error, got %v", err)
		}
	})
	t.Run("ping", func(t *testing.T) {
		db, conn := testutil.NewStubDB()
		conn.FailPing = true
		restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
		defer restore()
		if _, err := NewStore(context.Background(), "", nil); err == nil || !strings.Contains(err.Error(), "ping postgres") {
			t.Fatalf("expected ping error, got %v", err)
		}
	})
	t.Run("ddl", func(t *testing.T) {
		db, conn := testutil.NewStubDB()
		conn.FailExec = true
		restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
		defer restore()
		if _, err := NewStore(context.Background(), "", nil); err == nil || !strings.Contains(err.Error(), "ensure state table") {
			t.Fatalf("expected ddl error, got %v", err)
		}
	})
	t.Run("rows", func(t *testing.T) {
		db, conn := testutil.NewStubDB()
		conn.RowsErr = errors.New("rows broken")
		restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
		defer restore()
		if _, err := NewStore(context.Background(), "", nil); err == nil || !strings.Contains(err.Error(), "iterate state") {
			t.Fatalf("expected iterate error, got %v", err)
		}
	})
}

func TestPersistFailureSurfacesError(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	store, err := NewStore(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	before := store.CompanyInfo()
	conn.FailCommit = true
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, e := tx.AddClient(domain.ClientInput{FullName: "Jane"}); e != nil {
			return e
		}
		_, e := tx.UpdateCompanyInfo(domain.CompanyInfo{Name: "x"})
		return e
	})
	if err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit error, got %v", err)
	}
	if n := len(store.ListClients()); n != 0 {
		t.Fatalf("failed persist must not commit clients, got %d", n)
	}
	if store.CompanyInfo() != before {
		t.Fatalf("failed persist must not change company, got %+v", store.CompanyInfo())
	}

	conn.FailCommit = false
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.AddClient(domain.ClientInput{FullName: "Jane"})
		return e
	}); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if n := len(store.ListClients()); n != 1 {
		t.Fatalf("expected one client after retry, got %d", n)
	}
}
