package repository

import (
	"context"
	"fmt"

	"github.com/kutbudev/foodgram/pkg/models"
	"gorm.io/gorm"
)

// UserRepository stores accounts and the subscription graph.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates and returns a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user. A duplicate email or username yields ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByEmail fetches a user by login email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Taken reports which of email and username already belong to another user.
func (r *UserRepository) Taken(ctx context.Context, email, username string, exceptID uint) (emailTaken, usernameTaken bool, err error) {
	var users []models.User
	err = r.DB.WithContext(ctx).
		Select("id", "email", "username").
		Where("(email = ? OR username = ?) AND id <> ?", email, username, exceptID).
		Find(&users).Error
	if err != nil {
		return false, false, fmt.Errorf("check user uniqueness: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			emailTaken = true
		}
		if u.Username == username {
			usernameTaken = true
		}
	}
	return emailTaken, usernameTaken, nil
}

// List returns a page of users ordered by id together with the total count.
func (r *UserRepository) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := r.DB.WithContext(ctx).Scopes(page.scope).Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateProfile saves the editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.DB.WithContext(ctx).Model(user).
		Select("email", "username", "first_name", "last_name").
		Updates(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetPassword stores a new password hash.
func (r *UserRepository) SetPassword(ctx context.Context, userID uint, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("set password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user together with their recipes, memberships,
// subscriptions on either side and issued tokens.
func (r *UserRepository) Delete(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipeIDs := tx.Model(&models.Recipe{}).Select("id").Where("author_id = ?", userID)
		if err := deleteRecipeChildren(tx, recipeIDs); err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Recipe{}).Error; err != nil {
			return fmt.Errorf("delete recipes: %w", err)
		}

		for _, model := range []interface{}{&models.Favorite{}, &models.ShoppingCartItem{}, &models.AuthToken{}} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete user rows: %w", err)
			}
		}
		if err := tx.Where("user_id = ? OR subscriber_id = ?", userID, userID).Delete(&models.Subscription{}).Error; err != nil {
			return fmt.Errorf("delete subscriptions: %w", err)
		}

		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Subscribe makes subscriberID follow userID.
func (r *UserRepository) Subscribe(ctx context.Context, userID, subscriberID uint) (*models.Subscription, error) {
	if userID == subscriberID {
		return nil, ErrSelfSubscription
	}
	sub := &models.Subscription{UserID: userID, SubscriberID: subscriberID}
	if err := r.DB.WithContext(ctx).Create(sub).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return sub, nil
}

// Unsubscribe removes the edge. ErrNotFound when there was none.
func (r *UserRepository) Unsubscribe(ctx context.Context, userID, subscriberID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND subscriber_id = ?", userID, subscriberID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscriptions returns the users subscriberID follows, oldest subscription first.
func (r *UserRepository) Subscriptions(ctx context.Context, subscriberID uint, page Page) ([]models.User, int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	var users []models.User
	err = r.DB.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.user_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.id ASC").
		Scopes(page.scope).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	return users, total, nil
}

// SubscribedTo reports, for each of userIDs, whether subscriberID follows them.
func (r *UserRepository) SubscribedTo(ctx context.Context, subscriberID uint, userIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(userIDs))
	if subscriberID == 0 || len(userIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND user_id IN ?", subscriberID, userIDs).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// IsSubscribed is SubscribedTo for a single user.
func (r *UserRepository) IsSubscribed(ctx context.Context, subscriberID, userID uint) (bool, error) {
	set, err := r.SubscribedTo(ctx, subscriberID, []uint{userID})
	if err != nil {
		return false, err
	}
	return set[userID], nil
}
