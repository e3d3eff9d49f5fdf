package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/run-write/core/internal/config"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	cfg *config.AppConfig
	log *zap.Logger
}

func NewService(db *gorm.DB, cfg *config.AppConfig, log *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

// Exchange turns a verified upstream identity into a local session. The
// frontend proves itself with the shared exchange key; the user row is
// created on first sign-in and refreshed on every later one.
func (s *Service) Exchange(dto ExchangeDTO, ip, ua string) (*TokenResponse, error) {
	key := s.cfg.Auth.ExchangeKey
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(dto.Key)) != 1 {
		return nil, ErrBadExchangeKey
	}

	user, err := s.upsertUser(dto, ip)
	if err != nil {
		return nil, err
	}

	token, _, err := session.Issue(s.db, user.ID, ip, ua, session.DefaultTTL)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, User: user}, nil
}

// Login authenticates an admin with email and password against the
// configured bcrypt hash.
func (s *Service) Login(dto LoginDTO, ip, ua string) (*TokenResponse, error) {
	hash := s.cfg.Auth.AdminPassword
	if hash == "" {
		return nil, ErrBadCredentials
	}

	var user models.UserModel
	err := s.db.Where("email = ? AND is_admin = ?", strings.ToLower(strings.TrimSpace(dto.Email)), true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Burn a compare anyway so the miss is not observable by timing.
		_ = bcrypt.CompareHashAndPassword([]byte(hash), []byte(dto.Password))
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(dto.Password)) != nil {
		return nil, ErrBadCredentials
	}

	if err := s.touchLogin(user.ID, ip); err != nil {
		s.log.Error("login stamp failed", zap.String("user", user.ID), zap.Error(err))
	}

	token, _, err := session.Issue(s.db, user.ID, ip, ua, session.DefaultTTL)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, User: &user}, nil
}

// Logout revokes the calling session.
func (s *Service) Logout(userID, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := session.Revoke(s.db, userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// Session returns the current user for a valid token.
func (s *Service) Session(userID, sessionID string) (*SessionResponse, error) {
	var user models.UserModel
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &SessionResponse{User: &user, SessionID: sessionID}, nil
}

func (s *Service) upsertUser(dto ExchangeDTO, ip string) (*models.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	now := time.Now()

	var user models.UserModel
	err := s.db.Where("provider = ? AND provider_uid = ?", dto.Provider, dto.ProviderUID).
		First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"last_login_time": &now,
			"last_login_ip":   ip,
		}
		if email != "" {
			updates["email"] = email
		}
		if dto.Name != "" {
			updates["name"] = dto.Name
		}
		if dto.Image != "" {
			updates["image"] = dto.Image
		}
		// The admin flag is granted on sign-in, never revoked here.
		if !user.IsAdmin && s.cfg.IsAdminEmail(email) {
			updates["is_admin"] = true
			user.IsAdmin = true
		}
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		user.Email = email
		user.LastLoginTime = &now
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.UserModel{
			Provider:      dto.Provider,
			ProviderUID:   dto.ProviderUID,
			Email:         email,
			Name:          dto.Name,
			Image:         dto.Image,
			IsAdmin:       s.cfg.IsAdminEmail(email),
			LastLoginTime: &now,
			LastLoginIP:   ip,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		s.log.Info("user created",
			zap.String("user", user.ID), zap.String("provider", dto.Provider))
		return &user, nil
	default:
		return nil, err
	}
}

func (s *Service) touchLogin(userID, ip string) error {
	now := time.Now()
	return s.db.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_time": &now,
			"last_login_ip":   ip,
		}).Error
}
