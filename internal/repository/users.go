package repository

import (
	"context" // Request context

	"receipt_system/internal/domain" // Importing domain models
)

// CreateUser inserts a user. A taken email or username is ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error) // Save user to database
}

// GetUserByID finds a user by primary key
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User // Find user
	// Query user by ID
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetUserByUsername finds a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User // Find user
	// Query user by username
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UpdateUserPassword stores a new password hash
func (r *Repository) UpdateUserPassword(ctx context.Context, id uint, hashedPassword string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("hashed_password", hashedPassword) // Update hash
	if res.Error != nil {
		return translate(res.Error)
	}
	// No row was updated
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the account row only. Receipts keep their owner_id.
func (r *Repository) DeleteUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, id) // Delete by primary key
	if res.Error != nil {
		return translate(res.Error)
	}
	// No row was deleted
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
