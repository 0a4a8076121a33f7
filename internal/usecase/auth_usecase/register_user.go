package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"messapp/internal/domain/model"
	"messapp/internal/repository"
)

type RegisterUserInput struct {
	Enrollment string
	Name       string
	Password   string
}

type RegisterUserOutput struct {
	User model.User
}

var (
	ErrWeakPassword = errors.New("weak password")

	ErrEnrollmentAlreadyExists = errors.New("enrollment already registered")
)

// Input shape checks (required fields, formats) live outside the usecase.
type InputValidator interface {
	ValidateRegister(ctx context.Context, enrollment, name, password string) error
	ValidateLogin(ctx context.Context, enrollment, password string) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	validator InputValidator
	clock     Clock
}

func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	validator InputValidator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		hasher:    hasher,
		validator: validator,
		clock:     clock,
	}
}

// Execute registers a student account.
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	in.Enrollment = NormalizeEnrollment(in.Enrollment)
	in.Name = strings.TrimSpace(in.Name)

	if err := u.validator.ValidateRegister(ctx, in.Enrollment, in.Name, in.Password); err != nil {
		return out, err
	}

	// よくあるパスワード・学籍番号そのままは拒否
	if isWeakPassword(in.Password, in.Enrollment) {
		return out, ErrWeakPassword
	}

	//学籍番号の重複チェック
	existing, err := u.userRepo.FindByEnrollment(ctx, in.Enrollment)
	if err != nil {
		return out, err
	}
	if existing != nil {
		return out, ErrEnrollmentAlreadyExists
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	user := &model.User{
		Enrollment:   in.Enrollment,
		Name:         in.Name,
		PasswordHash: hashed,
		Role:         model.RoleStudent,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// 同時登録でユニーク制約に負けた
		if errors.Is(err, repository.ErrConflict) {
			return out, ErrEnrollmentAlreadyExists
		}
		return out, err
	}

	out.User = withoutHash(*user)
	return out, nil
}

// NormalizeEnrollment trims and upper-cases an enrollment number ("21bcs102" -> "21BCS102").
func NormalizeEnrollment(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func withoutHash(u model.User) model.User {
	u.PasswordHash = ""
	return u
}
