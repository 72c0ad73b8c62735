package users

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidAccount indicates a login without a usable username.
var ErrInvalidAccount = errors.New("users: invalid account")

// ServiceConfig describes the dependencies required for account bookkeeping.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service records administrative logins.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService constructs the account service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, now: clock}, nil
}

// RecordLogin upserts the account row for a successful login and stamps the
// login time.
func (s *Service) RecordLogin(username, displayName string) (Account, error) {
	username = normalize(username)
	if username == "" {
		return Account{}, ErrInvalidAccount
	}

	var account Account
	err := s.db.Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = Account{
			Username:    username,
			DisplayName: normalize(displayName),
			LastLoginAt: s.now(),
		}
		if err := s.db.Create(&account).Error; err != nil {
			return Account{}, err
		}
		return account, nil
	}
	if err != nil {
		return Account{}, err
	}

	updates := map[string]interface{}{"last_login_at": s.now()}
	if display := normalize(displayName); display != "" && display != account.DisplayName {
		updates["display_name"] = display
	}
	if err := s.db.Model(&Account{}).Where("username = ?", username).Updates(updates).Error; err != nil {
		return Account{}, err
	}
	account.LastLoginAt = s.now()
	return account, nil
}
