package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kharchapal/internal/database"
	"kharchapal/internal/repository"
	"kharchapal/internal/store"
)

func TestStartWithoutSession(t *testing.T) {
	_, app := startSession(t, filepath.Join(t.TempDir(), "kharchapal.db"))

	snap := app.Snapshot()
	if snap.CurrentUser != nil || snap.CurrentFamily != nil {
		t.Errorf("fresh start has a session: %+v / %+v", snap.CurrentUser, snap.CurrentFamily)
	}
	if snap.IsLoading {
		t.Error("IsLoading should be false once Start returns")
	}
}

func TestRestoreIsRepeatable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kharchapal.db")

	first := newTestSession(path)
	if _, err := first.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	family, admin, err := first.CreateFamily(ctx, "Sharma", "INR", "Priya")
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	first.Close()

	for i := 0; i < 2; i++ {
		svc := newTestSession(path)
		app, err := svc.Start(ctx)
		if err != nil {
			t.Fatalf("restart %d: Start() error = %v", i, err)
		}
		snap := app.Snapshot()
		if snap.CurrentUser == nil || snap.CurrentUser.ID != admin.ID {
			t.Errorf("restart %d: CurrentUser = %+v, want %s", i, snap.CurrentUser, admin.ID)
		}
		if snap.CurrentFamily == nil || snap.CurrentFamily.ID != family.ID {
			t.Errorf("restart %d: CurrentFamily = %+v, want %s", i, snap.CurrentFamily, family.ID)
		}
		if len(snap.Users) != 1 {
			t.Errorf("restart %d: %d users loaded, want 1", i, len(snap.Users))
		}
		svc.Close()
	}
}

func TestStalePointersAreCleared(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kharchapal.db")

	svc, _ := startSession(t, path)
	settings := repository.NewSettingsRepository(svc.Store())
	if err := settings.SetSetting(ctx, repository.CurrentUserKey, "gone-user"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := settings.SetSetting(ctx, repository.CurrentFamilyKey, "gone-family"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	svc.Close()

	restarted, app := startSession(t, path)
	if snap := app.Snapshot(); snap.CurrentUser != nil || snap.CurrentFamily != nil {
		t.Errorf("stale pointers produced a session: %+v", snap)
	}
	user, family, err := repository.NewSettingsRepository(restarted.Store()).SessionPointers(ctx)
	if err != nil || user != "" || family != "" {
		t.Errorf("SessionPointers() = %q, %q, %v; want cleared", user, family, err)
	}
}

func TestJoinFamily(t *testing.T) {
	ctx := context.Background()
	svc, _, family, _ := setupFamily(t)

	joined, member, err := svc.JoinFamily(ctx, "  "+strings.ToLower(family.InviteCode)+" ", "Arjun")
	if err != nil {
		t.Fatalf("JoinFamily() error = %v", err)
	}
	if joined.ID != family.ID || member.FamilyID != family.ID || member.IsAdmin() {
		t.Errorf("JoinFamily() = %+v, %+v", joined, member)
	}

	snap := svc.App().Snapshot()
	if snap.CurrentUser == nil || snap.CurrentUser.ID != member.ID {
		t.Errorf("CurrentUser = %+v, want the new member", snap.CurrentUser)
	}
	if len(snap.Users) != 2 {
		t.Errorf("%d users loaded, want 2", len(snap.Users))
	}

	if _, _, err := svc.JoinFamily(ctx, "NOPE00", "Someone"); !errors.Is(err, ErrInviteCodeNotFound) {
		t.Errorf("JoinFamily(unknown) error = %v, want ErrInviteCodeNotFound", err)
	}
}

func TestInviteCodeCollisions(t *testing.T) {
	ctx := context.Background()
	svc, _ := startSession(t, filepath.Join(t.TempDir(), "kharchapal.db"))

	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	svc.inviteCode = func() (string, error) {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}

	first, _, err := svc.CreateFamily(ctx, "Sharma", "INR", "Priya")
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	second, _, err := svc.CreateFamily(ctx, "Verma", "INR", "Rahul")
	if err != nil {
		t.Fatalf("second CreateFamily() error = %v", err)
	}
	if first.InviteCode != "AAAAAA" || second.InviteCode != "BBBBBB" {
		t.Errorf("invite codes = %s, %s; want AAAAAA, BBBBBB", first.InviteCode, second.InviteCode)
	}

	// only BBBBBB is left and it is taken
	if _, _, err := svc.CreateFamily(ctx, "Gupta", "INR", "Neha"); !errors.Is(err, ErrInviteCodeExhausted) {
		t.Errorf("CreateFamily() error = %v, want ErrInviteCodeExhausted", err)
	}
}

func TestLogoutKeepsData(t *testing.T) {
	ctx := context.Background()
	svc, app, family, _ := setupFamily(t)

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	snap := app.Snapshot()
	if snap.CurrentFamily != nil || len(snap.Users) != 0 {
		t.Errorf("snapshot after logout = %+v", snap)
	}

	stored, err := svc.Repository().GetFamily(ctx, family.ID)
	if err != nil || stored == nil {
		t.Errorf("GetFamily() after logout = %v, %v; want the family", stored, err)
	}
}

func TestOperationsBeforeStart(t *testing.T) {
	svc := newTestSession(filepath.Join(t.TempDir(), "kharchapal.db"))
	if _, _, err := svc.CreateFamily(context.Background(), "Sharma", "INR", "Priya"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("CreateFamily() before Start error = %v, want ErrNotStarted", err)
	}
	if err := svc.Logout(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Logout() before Start error = %v, want ErrNotStarted", err)
	}
}

type fakeOpener struct {
	openErr  error
	destroys int
}

func (f *fakeOpener) Open(ctx context.Context) (*store.Store, error) {
	return nil, f.openErr
}

func (f *fakeOpener) Destroy(ctx context.Context) error {
	f.destroys++
	return nil
}

func TestStartResetsUnavailableStore(t *testing.T) {
	tests := []struct {
		name         string
		openErr      error
		wantErr      error
		wantDestroys int
	}{
		{
			name:         "unavailable store is destroyed once",
			openErr:      fmt.Errorf("%w: corrupted", store.ErrStoreUnavailable),
			wantErr:      ErrResetRequired,
			wantDestroys: 1,
		},
		{
			name:         "newer schema is returned without a reset",
			openErr:      fmt.Errorf("%w: store is at version 5, requested 4", store.ErrSchemaTooNew),
			wantErr:      store.ErrSchemaTooNew,
			wantDestroys: 0,
		},
		{
			name:         "other errors are returned as they are",
			openErr:      context.Canceled,
			wantErr:      context.Canceled,
			wantDestroys: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{openErr: tt.openErr}
			_, err := NewSessionService(opener).Start(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Start() error = %v, want %v", err, tt.wantErr)
			}
			if opener.destroys != tt.wantDestroys {
				t.Errorf("Destroy called %d times, want %d", opener.destroys, tt.wantDestroys)
			}
		})
	}
}

func TestStartRecoversCorruptDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kharchapal.db")
	if err := os.WriteFile(path, []byte(strings.Repeat("not a database ", 100)), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := newTestSession(path).Start(ctx); !errors.Is(err, ErrResetRequired) {
		t.Fatalf("Start() on a corrupt file error = %v, want ErrResetRequired", err)
	}

	svc := newTestSession(path)
	defer svc.Close()
	if _, err := svc.Start(ctx); err != nil {
		t.Fatalf("Start() after reset error = %v", err)
	}
}

func TestStartKeepsDataFromNewerVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kharchapal.db")

	first := newTestSession(path)
	if _, err := first.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	family, _, err := first.CreateFamily(ctx, "Sharma", "INR", "Priya")
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	first.Close()

	setVersion := func(version int) {
		t.Helper()
		db, err := database.Initialize(path)
		if err != nil {
			t.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		if err := database.SetSchemaVersion(ctx, db, version); err != nil {
			t.Fatalf("SetSchemaVersion() error = %v", err)
		}
	}

	setVersion(store.SchemaVersion + 1)
	_, err = newTestSession(path).Start(ctx)
	if !errors.Is(err, store.ErrSchemaTooNew) {
		t.Fatalf("Start() on a newer schema error = %v, want ErrSchemaTooNew", err)
	}

	setVersion(store.SchemaVersion)
	_, app := startSession(t, path)
	snap := app.Snapshot()
	if snap.CurrentFamily == nil || snap.CurrentFamily.ID != family.ID {
		t.Errorf("family after a refused open = %+v, want %s", snap.CurrentFamily, family.ID)
	}
}

func TestStartClosesStoreWhenRestoreFails(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kharchapal.db")

	first := newTestSession(path)
	if _, err := first.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, _, err := first.CreateFamily(ctx, "Sharma", "INR", "Priya"); err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	first.Close()

	db, err := database.Initialize(path)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE users SET data = 'not json'"); err != nil {
		t.Fatalf("failed to damage user record: %v", err)
	}
	db.Close()

	svc := newTestSession(path)
	if _, err := svc.Start(ctx); err == nil {
		t.Fatal("Start() with an unreadable user should fail")
	}
	if svc.Store() != nil {
		t.Error("store should be closed and released after a failed restore")
	}
	if _, _, err := svc.CreateFamily(ctx, "Verma", "INR", "Anil"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("CreateFamily() after failed Start error = %v, want ErrNotStarted", err)
	}
}
