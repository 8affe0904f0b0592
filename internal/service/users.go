package service

import (
	"context" // Request context
	"errors"  // Error inspection

	"receipt_system/internal/apperr"     // Error taxonomy
	"receipt_system/internal/domain"     // Importing domain models
	"receipt_system/internal/repository" // Storage interfaces
	"receipt_system/internal/utils"      // Password hashing and tokens
	"receipt_system/internal/validation" // Shared validator

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RegisterInput is the body of POST /auth/create_user.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=50"`                 // Unique email
	Username  string `json:"username" binding:"required,notblank,max=50"`           // Unique username
	FirstName string `json:"first_name" binding:"required,notblank,max=50"`         // First name
	LastName  string `json:"last_name" binding:"required,notblank,max=50"`          // Last name
	Password  string `json:"password" binding:"required,min=10,max=50,maxbytes=72"` // Plain password, bcrypt takes at most 72 bytes
	IsAdmin   bool   `json:"is_admin"`                                              // Admin flag
}

// ChangePasswordInput is the body of PUT /user/password.
type ChangePasswordInput struct {
	Password    string `json:"password" binding:"required"`                               // Current password
	NewPassword string `json:"new_password" binding:"required,min=10,max=50,maxbytes=72"` // Replacement password
}

// UserService manages accounts and issues access tokens.
type UserService struct {
	users  repository.UserRepository // User storage
	tokens *utils.TokenService       // Access token signing
}

// NewUserService wires the service
func NewUserService(users repository.UserRepository, tokens *utils.TokenService) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates an account. A taken email or username is a Conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.UserProfile, error) {
	// Validate request
	if err := validation.Struct(in); err != nil {
		return nil, apperr.Validation(validation.Message(err))
	}
	hash, err := utils.HashPassword(in.Password) // Hash password
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	// Create user
	user := domain.User{
		Email:          in.Email,
		Username:       in.Username,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		HashedPassword: hash,
		IsAdmin:        in.IsAdmin,
	}
	// Save user to database
	if err := s.users.CreateUser(ctx, &user); err != nil {
		// Email or username already taken
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email or username already exists")
		}
		logrus.WithError(err).Error("failed to create user")
		return nil, apperr.Internal("Internal server error", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered") // Log registration
	profile := user.Profile()
	return &profile, nil
}

// Authenticate checks the credentials and returns a signed access token.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username) // Find user by username
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logrus.WithError(err).Error("failed to load user")
		return "", apperr.Internal("Internal server error", err)
	}
	// Unknown user and wrong password look the same
	if user == nil || !utils.VerifyPassword(password, user.HashedPassword) {
		return "", apperr.Unauthorized("Could not validate the user")
	}
	token, err := s.tokens.Issue(user.Username, user.ID, user.IsAdmin, s.tokens.TTL()) // Generate JWT token
	if err != nil {
		logrus.WithError(err).Error("failed to sign token")
		return "", apperr.Internal("Failed to generate token", err)
	}
	return token, nil
}

// Get returns the caller's public profile.
func (s *UserService) Get(ctx context.Context, identity *domain.Identity) (*domain.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, identity.ID) // Find user by token id
	if err != nil {
		return nil, userError(err)
	}
	profile := user.Profile() // Public fields only
	return &profile, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, identity *domain.Identity, in ChangePasswordInput) error {
	// Validate request
	if err := validation.Struct(in); err != nil {
		return apperr.Validation(validation.Message(err))
	}
	user, err := s.users.GetUserByID(ctx, identity.ID) // Find user by token id
	if err != nil {
		return userError(err)
	}
	// Check the current password
	if !utils.VerifyPassword(in.Password, user.HashedPassword) {
		return apperr.Unauthorized("Error on password change")
	}
	hash, err := utils.HashPassword(in.NewPassword) // Hash new password
	if err != nil {
		return apperr.Internal("Failed to hash password", err)
	}
	// Save the new hash
	if err := s.users.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return userError(err)
	}
	logrus.WithField("user_id", user.ID).Info("password changed") // Log password change
	return nil
}

// Delete removes the caller's account. Their receipts are kept.
func (s *UserService) Delete(ctx context.Context, identity *domain.Identity) error {
	// Receipts are not deleted with the account
	if err := s.users.DeleteUser(ctx, identity.ID); err != nil {
		return userError(err)
	}
	logrus.WithField("user_id", identity.ID).Info("user deleted") // Log deletion
	return nil
}

// userError maps a store failure to the error taxonomy
func userError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	logrus.WithError(err).Error("user store failure")
	return apperr.Internal("Internal server error", err)
}
