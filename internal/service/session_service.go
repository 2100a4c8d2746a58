package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"kharchapal/internal/credentials"
	"kharchapal/internal/models"
	"kharchapal/internal/repository"
	"kharchapal/internal/store"
	"kharchapal/internal/utils"
)

var (
	ErrResetRequired       = errors.New("local data was reset, restart the application")
	ErrNotStarted          = errors.New("session not started")
	ErrInviteCodeNotFound  = errors.New("invite code not found")
	ErrInviteCodeExhausted = errors.New("could not generate a unique invite code")
)

// maxInviteCodeAttempts bounds the retries on invite code collisions
const maxInviteCodeAttempts = 10

// StoreOpener opens the record store and can destroy it when it is beyond
// repair. *store.Opener is the production implementation.
type StoreOpener interface {
	Open(ctx context.Context) (*store.Store, error)
	Destroy(ctx context.Context) error
}

// SessionService decides which family is active and keeps the
// application state loaded for it.
type SessionService struct {
	opener     StoreOpener
	store      *store.Store
	repo       *repository.Repository
	settings   *repository.SettingsRepository
	app        *AppState
	inviteCode func() (string, error)
}

// NewSessionService creates a session service using opener
func NewSessionService(opener StoreOpener) *SessionService {
	return &SessionService{
		opener:     opener,
		inviteCode: credentials.GenerateInviteCode,
	}
}

// Start opens the store and restores the saved session, if any. When the
// stored data is damaged, local data is destroyed once and
// ErrResetRequired is returned. Any other open failure, including a store
// written by a newer version, is returned with the data left in place.
func (s *SessionService) Start(ctx context.Context) (*AppState, error) {
	st, err := s.opener.Open(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrStoreUnavailable) {
			return nil, err
		}
		log.Printf("Record store unavailable, resetting local data: %v", err)
		if derr := s.opener.Destroy(ctx); derr != nil {
			log.Printf("Failed to reset local data: %v", derr)
			return nil, fmt.Errorf("%w: reset failed: %w", err, derr)
		}
		return nil, ErrResetRequired
	}

	s.store = st
	s.repo = repository.New(st)
	s.settings = repository.NewSettingsRepository(st)
	s.app = NewAppState(s.repo, s.settings)
	s.app.Init()
	defer s.app.setLoading(false)

	if err := s.restore(ctx); err != nil {
		s.Close()
		s.store, s.repo, s.settings, s.app = nil, nil, nil, nil
		return nil, err
	}
	return s.app, nil
}

// restore only reads: valid pointers are loaded, stale ones are cleared
func (s *SessionService) restore(ctx context.Context) error {
	userID, familyID, err := s.settings.SessionPointers(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if userID == "" && familyID == "" {
		return nil
	}

	var user *models.User
	var family *models.Family
	if userID != "" && familyID != "" {
		if user, err = s.repo.GetUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to restore user: %w", err)
		}
		if family, err = s.repo.GetFamily(ctx, familyID); err != nil {
			return fmt.Errorf("failed to restore family: %w", err)
		}
	}

	if user == nil || family == nil || user.FamilyID != family.ID {
		log.Printf("Clearing stale session (user: %q, family: %q)", userID, familyID)
		if err := s.settings.ClearSessionPointers(ctx); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}

	s.app.mu.Lock()
	s.app.snap.CurrentUser = user
	s.app.snap.CurrentFamily = family
	s.app.mu.Unlock()

	return s.app.LoadFamilyData(ctx, family.ID)
}

// CreateFamily creates a family with adminName as its admin and makes it
// the active session.
func (s *SessionService) CreateFamily(ctx context.Context, familyName, currency, adminName string) (*models.Family, *models.User, error) {
	if s.app == nil {
		return nil, nil, ErrNotStarted
	}

	code, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := s.app.now()
	family := models.Family{
		ID:         utils.NewID(),
		Name:       strings.TrimSpace(familyName),
		InviteCode: code,
		Currency:   currency,
		CreatedAt:  now,
	}
	admin := models.User{
		ID:        utils.NewID(),
		FamilyID:  family.ID,
		Name:      strings.TrimSpace(adminName),
		Role:      models.RoleAdmin,
		CreatedAt: now,
	}
	if err := family.Validate(); err != nil {
		return nil, nil, err
	}
	if err := admin.Validate(); err != nil {
		return nil, nil, err
	}

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		if err := tx.AddFamily(ctx, family); err != nil {
			return err
		}
		return tx.AddUser(ctx, admin)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create family: %w", err)
	}

	log.Printf("Created family %s with invite code %s", family.Name, family.InviteCode)
	if err := s.activate(ctx, &admin, &family); err != nil {
		return nil, nil, err
	}
	return &family, &admin, nil
}

func (s *SessionService) uniqueInviteCode(ctx context.Context) (string, error) {
	for i := 0; i < maxInviteCodeAttempts; i++ {
		code, err := s.inviteCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		existing, err := s.repo.GetFamilyByInviteCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", ErrInviteCodeExhausted
}

// JoinFamily adds memberName to the family holding inviteCode and makes
// it the active session. Codes match regardless of case.
func (s *SessionService) JoinFamily(ctx context.Context, inviteCode, memberName string) (*models.Family, *models.User, error) {
	if s.app == nil {
		return nil, nil, ErrNotStarted
	}

	family, err := s.findFamily(ctx, credentials.NormalizeInviteCode(inviteCode))
	if err != nil {
		return nil, nil, err
	}

	member := models.User{
		ID:        utils.NewID(),
		FamilyID:  family.ID,
		Name:      strings.TrimSpace(memberName),
		Role:      models.RoleMember,
		CreatedAt: s.app.now(),
	}
	if err := member.Validate(); err != nil {
		return nil, nil, err
	}
	if err := s.repo.AddUser(ctx, member); err != nil {
		return nil, nil, fmt.Errorf("failed to join family: %w", err)
	}

	log.Printf("%s joined family %s", member.Name, family.Name)
	if err := s.activate(ctx, &member, family); err != nil {
		return nil, nil, err
	}
	return family, &member, nil
}

func (s *SessionService) findFamily(ctx context.Context, code string) (*models.Family, error) {
	if code == "" {
		return nil, ErrInviteCodeNotFound
	}
	family, err := s.repo.GetFamilyByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if family != nil {
		return family, nil
	}

	// codes stored by older clients may not be upper-case
	families, err := s.repo.GetAllFamilies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range families {
		if strings.EqualFold(families[i].InviteCode, code) {
			return &families[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInviteCodeNotFound, code)
}

func (s *SessionService) activate(ctx context.Context, user *models.User, family *models.Family) error {
	if err := s.app.SetCurrentFamily(ctx, family); err != nil {
		return err
	}
	if err := s.app.SetCurrentUser(ctx, user); err != nil {
		return err
	}
	return s.app.LoadFamilyData(ctx, family.ID)
}

// Logout clears the session; family data stays on the device
func (s *SessionService) Logout(ctx context.Context) error {
	if s.app == nil {
		return ErrNotStarted
	}
	return s.app.Logout(ctx)
}

// App returns the application state, or nil before Start
func (s *SessionService) App() *AppState {
	return s.app
}

// Repository returns the repository over the open store
func (s *SessionService) Repository() *repository.Repository {
	return s.repo
}

// Store returns the open record store
func (s *SessionService) Store() *store.Store {
	return s.store
}

// Close closes the record store
func (s *SessionService) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
