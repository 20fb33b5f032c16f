package usecase

import (
	"context"
	"strings"
	"time"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// JWTの発行だけを約束。実装はcmd側でDIする。
type TokenIssuer interface {
	Issue(userID int64, role model.Role, ttl time.Duration) (string, error)
}

// 会員登録・ログイン・管理者昇格。
type AuthUsecase struct {
	userRepo   repo.UserRepository
	issuer     TokenIssuer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// DI
func NewAuthUsecase(userRepo repo.UserRepository, issuer TokenIssuer, accessTTL, refreshTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// 会員登録。メール重複はErrEmailTaken。
func (u *AuthUsecase) Signup(ctx context.Context, email string, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return TokenPair{}, domain.NewValidationError("invalid email")
	}
	if len(password) < 8 {
		return TokenPair{}, domain.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := u.userRepo.Create(ctx, model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		IsActive:     true,
	})
	if err == repo.ErrDuplicateKey {
		return TokenPair{}, domain.ErrEmailTaken
	}
	if err != nil {
		return TokenPair{}, err
	}

	return u.issueTokens(user)
}

// ログイン。ユーザー不在もパスワード不一致も同じErrInvalidCredentials。
func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return TokenPair{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, domain.ErrInvalidCredentials
	}

	return u.issueTokens(user)
}

// メールアドレス指定で管理者へ昇格（管理者のみ呼べる）。
func (u *AuthUsecase) PromoteToAdmin(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return model.User{}, domain.NewValidationError("user not found")
	}
	if err != nil {
		return model.User{}, err
	}
	if user.Role == model.RoleAdmin {
		return model.User{}, domain.NewValidationError("user is already an admin")
	}

	if err := u.userRepo.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return model.User{}, err
	}

	user.Role = model.RoleAdmin
	return user, nil
}

func (u *AuthUsecase) issueTokens(user model.User) (TokenPair, error) {
	access, err := u.issuer.Issue(user.ID, user.Role, u.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := u.issuer.Issue(user.ID, user.Role, u.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
