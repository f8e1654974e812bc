package service

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// ProfileUpdate carries the editable profile attributes.
type ProfileUpdate struct {
	Name       string
	Phone      string
	Country    string
	Gender     string
	PictureURL string
}

// AuthService issues tokens and bootstraps profiles. The hex user ID it puts
// in tokens is the opaque userId every other service works with.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	adminEmails   map[string]bool
}

// NewAuthService creates a new instance of authService. Accounts registered
// with one of adminEmails get the admin role.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, adminEmails []string) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		adminEmails:   admins,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, validationErrorf("name, email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, transportError("lookup user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	role := domain.RoleUser
	if s.adminEmails[email] {
		role = domain.RoleAdmin
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent registration; the unique index caught it
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, transportError("create user", err)
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		err = validationErrorf("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		err = transportError("lookup user", err)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, validationErrorf("invalid user id %q", userID)
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, transportError("get user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	if strings.TrimSpace(update.Name) == "" {
		return nil, validationErrorf("name cannot be empty")
	}
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = update.Name
	user.Phone = update.Phone
	user.Country = update.Country
	user.Gender = update.Gender
	user.PictureURL = update.PictureURL

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, transportError("update profile", err)
	}
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "recipe-planner",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
