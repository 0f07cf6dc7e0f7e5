package repositories

import (
	"errors"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = apperrors.ErrUserNotFound
	ErrUserAlreadyExists = apperrors.ErrUserAlreadyExists
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return duplicate(r.DB.Create(user).Error, ErrUserAlreadyExists)
}

func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAnyByUsername also sees soft-deleted accounts, which still hold
// their username in the unique index.
func (r *UserRepository) FindAnyByUsername(username string) (*models.User, error) {
	return r.findAny("LOWER(username) = LOWER(?)", username)
}

// FindAnyByEmail is FindAnyByUsername for email addresses.
func (r *UserRepository) FindAnyByEmail(email string) (*models.User, error) {
	return r.findAny("LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) findAny(cond, value string) (*models.User, error) {
	var user models.User
	err := r.DB.Unscoped().Where(cond, value).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs returns the users that exist among ids, locked for update.
func (r *UserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := forUpdate(r.DB).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, err
}

// UpdateUser applies the given column updates and returns the fresh row.
func (r *UserRepository) UpdateUser(userID uint, updates map[string]any) (*models.User, error) {
	if len(updates) > 0 {
		res := r.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return nil, duplicate(res.Error, ErrUserAlreadyExists)
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return r.GetUserByID(userID)
}

func (r *UserRepository) DeleteUser(userID uint) error {
	result := r.DB.Delete(&models.User{}, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers orders active accounts first, then by role, newest first.
func (r *UserRepository) ListUsers(keyword string, role models.Role, params models.PaginationParams) ([]models.User, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Model(&models.User{})
		if keyword != "" {
			p := likePattern(keyword)
			q = q.Where(`(LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, p, p)
		}
		if role != "" {
			q = q.Where("role = ?", role)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := base().
		Order("status ASC").
		Order("role ASC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&users).Error
	return users, total, err
}
