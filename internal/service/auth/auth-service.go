package auth

import (
	"context"
	"errors"
	"log/slog"

	"shopbot/entity"
	"shopbot/internal/config"
	"shopbot/internal/lib/sl"
)

// ErrNotAllowed is returned when a user attempts an operation above
// their role.
var ErrNotAllowed = errors.New("operation not allowed")

// Repository defines the storage operations the auth service needs.
type Repository interface {
	UpsertUser(ctx context.Context, user *entity.User) error
	GetUser(ctx context.Context, userID int64) (*entity.User, error)
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error
	GetAdmins(ctx context.Context) ([]entity.User, error)
	UpdateLanguage(ctx context.Context, userID int64, lang string) error
	UpdateNotifications(ctx context.Context, userID int64, enabled bool) error
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	CreateProfile(ctx context.Context, profile *entity.UserProfile) error
	GetProfile(ctx context.Context, userID int64) (*entity.UserProfile, error)
	UpdateProfileName(ctx context.Context, userID int64, name string) error
	UpdateProfilePhone(ctx context.Context, userID int64, phone string) error
	UpdateProfileEmail(ctx context.Context, userID int64, email string) error
	UpdateProfileAge(ctx context.Context, userID int64, age int) error
	UpdateProfilePhoto(ctx context.Context, userID int64, photoID string) error
	UpdateProfileLocation(ctx context.Context, userID int64, lat, lon float64) error
}

type Service struct {
	repository Repository
	conf       *config.Config
	log        *slog.Logger
}

func NewAuthService(repository Repository, conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		conf:       conf,
		log:        logger.With(sl.Module("auth-service")),
	}
}

// EnsureUser records the user on first contact and refreshes the username
// and first name on every later one.
func (s *Service) EnsureUser(ctx context.Context, userID int64, username, firstName string) error {
	user := entity.NewUser(userID, username, firstName)
	return s.repository.UpsertUser(ctx, user)
}

// GetUser returns the stored account for the Telegram user.
func (s *Service) GetUser(ctx context.Context, userID int64) (*entity.User, error) {
	return s.repository.GetUser(ctx, userID)
}

// IsAdmin reports whether the user may open the admin panel. Admins come
// from three places: the configured ID list, the super admin and the
// per-user flag granted at runtime.
func (s *Service) IsAdmin(ctx context.Context, userID int64) bool {
	if s.conf.IsSuperAdmin(userID) || s.conf.IsConfiguredAdmin(userID) {
		return true
	}

	user, err := s.repository.GetUser(ctx, userID)
	if err != nil {
		s.log.Error("getting user", sl.Err(err))
		return false
	}
	return user.IsAdmin
}

// IsSuperAdmin reports whether the user is the configured super admin.
func (s *Service) IsSuperAdmin(userID int64) bool {
	return s.conf.IsSuperAdmin(userID)
}

// GrantAdmin flips the runtime admin flag for a user. Only the super
// admin may do this.
func (s *Service) GrantAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error {
	if !s.IsSuperAdmin(actorID) {
		return ErrNotAllowed
	}
	return s.repository.SetAdmin(ctx, userID, isAdmin)
}

// Admins lists users carrying the runtime admin flag.
func (s *Service) Admins(ctx context.Context) ([]entity.User, error) {
	return s.repository.GetAdmins(ctx)
}

// IsRegistered reports whether the user completed registration.
func (s *Service) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	return s.repository.IsRegistered(ctx, userID)
}

// Register stores the profile collected by the registration workflow.
// A second registration for the same user is rejected by the repository.
func (s *Service) Register(ctx context.Context, profile *entity.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := s.repository.CreateProfile(ctx, profile); err != nil {
		return err
	}
	s.log.Info("user registered", slog.Int64("user_id", profile.UserID))
	return nil
}

// Profile returns the user's registration profile.
func (s *Service) Profile(ctx context.Context, userID int64) (*entity.UserProfile, error) {
	return s.repository.GetProfile(ctx, userID)
}

// The profile is edited one field at a time through these methods. There
// is deliberately no free-form column update.

func (s *Service) SetName(ctx context.Context, userID int64, name string) error {
	return s.repository.UpdateProfileName(ctx, userID, name)
}

func (s *Service) SetPhone(ctx context.Context, userID int64, phone string) error {
	return s.repository.UpdateProfilePhone(ctx, userID, phone)
}

func (s *Service) SetEmail(ctx context.Context, userID int64, email string) error {
	return s.repository.UpdateProfileEmail(ctx, userID, email)
}

func (s *Service) SetAge(ctx context.Context, userID int64, age int) error {
	return s.repository.UpdateProfileAge(ctx, userID, age)
}

func (s *Service) SetPhoto(ctx context.Context, userID int64, photoID string) error {
	return s.repository.UpdateProfilePhoto(ctx, userID, photoID)
}

func (s *Service) SetLocation(ctx context.Context, userID int64, lat, lon float64) error {
	return s.repository.UpdateProfileLocation(ctx, userID, lat, lon)
}

// SetLanguage switches the user's interface language.
func (s *Service) SetLanguage(ctx context.Context, userID int64, lang string) error {
	return s.repository.UpdateLanguage(ctx, userID, lang)
}

// SetNotifications toggles broadcast notifications for the user.
func (s *Service) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	return s.repository.UpdateNotifications(ctx, userID, enabled)
}
