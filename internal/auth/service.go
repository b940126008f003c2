// Package auth はパスワード認証とアクセストークン管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hitoshi/kicho/internal/model"
	"github.com/hitoshi/kicho/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	PasswordMinLength int // パスワードの最小文字数
}

// CategorySeeder は新規ユーザーへの初期カテゴリ投入を行うインターフェース。
type CategorySeeder interface {
	// SeedDefaults は指定ユーザーに初期カテゴリ一式を作成する。
	SeedDefaults(ctx context.Context, userID string) error
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	seeder   CategorySeeder
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	tokens *TokenService,
	seeder CategorySeeder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		seeder:   seeder,
		config:   config,
	}
}

// Register は新規ユーザーを登録し、初期カテゴリを投入する。
// emailは小文字に正規化してから保存する。
// 登録済みemailの場合はmodel.DuplicateEmailErrorを返す。
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, model.NewValidationError("メールアドレスの形式が正しくありません")
	}
	normalized := strings.ToLower(addr.Address)

	if utf8.RuneCountInString(password) < s.config.PasswordMinLength {
		return nil, model.NewValidationError(
			fmt.Sprintf("パスワードは%d文字以上で入力してください", s.config.PasswordMinLength))
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        normalized,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 初期カテゴリを投入する。失敗しても登録自体は成立させる。
	if err := s.seeder.SeedDefaults(ctx, user.ID); err != nil {
		slog.Error("failed to seed default categories",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login はemailとパスワードで認証し、アクセストークンを発行する。
// 未登録emailと誤パスワードは同じ認証エラーとして返し、区別しない。
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !CheckPassword(password, user.PasswordHash) {
		return "", nil, model.NewUnauthorizedError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return token, user, nil
}

// GetUser は指定IDのユーザーを取得する。
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError()
	}
	return user, nil
}
