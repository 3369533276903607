package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 15 * time.Minute

type AuthUsecase struct {
	userRepo  repo.UserRepository
	validate  *validator.Validate
	jwtSecret []byte
}

func NewAuthUsecase(userRepo repo.UserRepository, jwtSecret string) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		validate:  validator.New(),
		jwtSecret: []byte(jwtSecret),
	}
}

type RegisterInput struct {
	Surname  string `json:"surname" validate:"required,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID      int64   `json:"id"`
	Surname string  `json:"surname"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Role    string  `json:"role"`
}

type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"`
}

// Register は会員登録。
// メール・電話の重複は項目別のエラーに変換して返す。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserResponse, error) {
	if err := u.validate.Struct(in); err != nil {
		return UserResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return UserResponse{}, err
	}
	if taken {
		return UserResponse{}, ErrEmailTaken
	}

	var phone *string
	if p := strings.TrimSpace(in.Phone); p != "" {
		taken, err := u.userRepo.ExistsByPhone(ctx, p)
		if err != nil {
			return UserResponse{}, err
		}
		if taken {
			return UserResponse{}, ErrPhoneTaken
		}
		phone = &p
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	created, err := u.userRepo.Create(ctx, model.User{
		Surname:      strings.TrimSpace(in.Surname),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		// 事前チェックをすり抜けた同時登録は制約違反で落ちる
		return UserResponse{}, translateUniqueViolation(err)
	}

	return toUserResponse(created), nil
}

// Login はメール＋パスワードでJWTを発行する。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginResponse, error) {
	if err := u.validate.Struct(in); err != nil {
		return LoginResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginResponse{}, ErrUnauthorized
	}
	if err != nil {
		return LoginResponse{}, err
	}
	if !user.IsActive {
		return LoginResponse{}, ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginResponse{}, ErrUnauthorized
	}

	token, err := u.issueToken(user, time.Now())
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		User:        toUserResponse(user),
		AccessToken: token,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
	}, nil
}

func (u *AuthUsecase) issueToken(user model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(u.jwtSecret)
}

// postgresの一意制約違反を項目別エラーへ変換する
func translateUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "UNIQUE constraint") {
		return err
	}
	if strings.Contains(msg, "email") {
		return ErrEmailTaken
	}
	if strings.Contains(msg, "phone") {
		return ErrPhoneTaken
	}
	return err
}

func toUserResponse(user model.User) UserResponse {
	return UserResponse{
		ID:      user.ID,
		Surname: user.Surname,
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Role:    string(user.Role),
	}
}
