package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/joblinkhq/joblink/internal/models"
	pgrepo "github.com/joblinkhq/joblink/internal/repositories/postgres"
	"github.com/joblinkhq/joblink/internal/storage"
	"github.com/joblinkhq/joblink/internal/utils"
)

const tokenTTL = 24 * time.Hour

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string

	// Optional avatar image, already validated by the handler.
	Photo         io.Reader
	PhotoMimeType string
}

type ProfileUpdateInput struct {
	FullName    *string
	PhoneNumber *string
	Bio         *string
	Skills      *[]string

	// Optional resume file, already validated by the handler.
	Resume             io.Reader
	ResumeMimeType     string
	ResumeOriginalName string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	// Login checks credentials and the claimed role, returning the user
	// and a signed credential token.
	Login(ctx context.Context, email, password, role string) (*models.User, string, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) (*models.User, error)
	ListWorkers(ctx context.Context) ([]models.User, error)
}

type userService struct {
	users    pgrepo.UserRepository
	uploader storage.Uploader
	secret   string
}

func NewUserService(users pgrepo.UserRepository, uploader storage.Uploader, secret string) UserService {
	return &userService{users: users, uploader: uploader, secret: secret}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "UserService.Register"

	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "fullname, email, and password are required", nil)
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be worker or recruiter", nil)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "an account with this email already exists", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing account", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:          uuid.NewString(),
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    hash,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Photo != nil {
		if s.uploader == nil {
			return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
		}
		objectName := "avatars/" + u.ID + "/" + uuid.NewString()
		url, err := s.uploader.Upload(ctx, objectName, in.PhotoMimeType, in.Photo)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to upload photo", err)
		}
		u.Profile.PhotoURL = url
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create account", err)
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, email, password, role string) (*models.User, string, error) {
	const op = "UserService.Login"

	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	claimed, ok := models.ParseRole(role)
	if !ok {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "role must be worker or recruiter", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "incorrect email or password", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load account", err)
	}

	if err := utils.CheckPassword(u.Password, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "incorrect email or password", err)
	}
	if u.Role != claimed {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "account does not exist with this role", nil)
	}

	tok, err := utils.MintToken(s.secret, u.ID, string(u.Role), tokenTTL)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return u, tok, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) (*models.User, error) {
	const op = "UserService.UpdateProfile"

	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Bio != nil {
		u.Profile.Bio = *in.Bio
	}
	if in.Skills != nil {
		u.Profile.Skills = *in.Skills
	}

	if in.Resume != nil {
		if s.uploader == nil {
			return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
		}
		objectName := "resumes/" + u.ID + "/" + uuid.NewString()
		url, err := s.uploader.Upload(ctx, objectName, in.ResumeMimeType, in.Resume)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
		}
		u.Profile.ResumeURL = url
		u.Profile.ResumeOriginalName = in.ResumeOriginalName
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return u, nil
}

func (s *userService) ListWorkers(ctx context.Context) ([]models.User, error) {
	const op = "UserService.ListWorkers"

	out, err := s.users.ListByRole(ctx, models.RoleWorker)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list workers", err)
	}
	return out, nil
}
