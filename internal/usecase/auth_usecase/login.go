package auth

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	"pos/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
}

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// passwordを含まないユーザー情報
type UserDTO struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	User  UserDTO        `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// ユーザー名またはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator CredentialValidator
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	validator CredentialValidator,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	//入力検証
	if err := u.validator.ValidateLogin(in.Username, in.Password); err != nil {
		return out, err
	}

	//usernameでユーザー取得
	user, err := u.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//AccessToken発行
	now := u.clock.Now()
	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return out, err
	}

	//最終ログイン時刻更新
	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return out, err
	}

	out.User = UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	out.Token = JwtAccessToken{
		AccessToken: accessToken,
		ExpiresIn:   int(accessExp.Sub(now).Seconds()),
	}
	return out, nil
}
