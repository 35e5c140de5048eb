package auth

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	"pos/internal/repository"
)

// 起動時に管理者を1人だけ用意する
type SeedAdminUsecase struct {
	userRepo  repository.UserRepository
	validator CredentialValidator
	hasher    PasswordHasher
	clock     Clock
}

func NewSeedAdminUsecase(
	userRepo repository.UserRepository,
	validator CredentialValidator,
	hasher PasswordHasher,
	clock Clock,
) *SeedAdminUsecase {
	return &SeedAdminUsecase{
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		clock:     clock,
	}
}

// 既にいれば何もしない（created=false）
func (u *SeedAdminUsecase) Execute(ctx context.Context, username string, password string) (bool, error) {
	if err := u.validator.ValidateSeed(username, password); err != nil {
		return false, err
	}

	_, err := u.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, err
	}

	//平文は保存しない
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	now := u.clock.Now()
	if err := u.userRepo.Create(ctx, &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return false, err
	}
	return true, nil
}
