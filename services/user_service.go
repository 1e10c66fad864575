package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/storage"
	"github.com/google/uuid"
)

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, id int, currentUserID int, input UpdateUserInput) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int, currentUserID int, contentType string, file io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int, currentUserID int, input UpdateUserInput) (*models.User, error) {
	if id != currentUserID {
		return nil, ErrForbiddenOperation
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if user.FirstName == "" || user.LastName == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: first name, last name and email cannot be empty", ErrValidationFailed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, currentUserID int, contentType string, file io.Reader) (*models.User, error) {
	if userID != currentUserID {
		return nil, ErrForbiddenOperation
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	ext, err := imageExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	if err := s.userRepo.UpdateAvatarKey(ctx, userID, &key); err != nil {
		// Best effort: do not leave an orphan object behind.
		_ = s.uploader.Delete(ctx, key)
		return nil, fmt.Errorf("failed to store avatar key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	user.AvatarKey = &key
	populateUserDetails(user, s.uploader)
	return user, nil
}
