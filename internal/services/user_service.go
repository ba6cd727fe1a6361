package services

import (
	"strings"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(user *models.User, password string) error
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(user *models.User, password string) error {
	var errs []string
	if strings.TrimSpace(user.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		errs = append(errs, "email is required")
	}
	if len(password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if !validRole(user.Role) {
		errs = append(errs, "invalid role")
	}
	if len(errs) > 0 {
		return ValidationErrors(errs)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordDigest = string(hashed)
	return s.userRepo.Create(user)
}

func (s *userService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, &AuthorizationError{Message: "invalid email or password"}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)) != nil {
		return nil, &AuthorizationError{Message: "invalid email or password"}
	}
	return user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

func (s *userService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

func (s *userService) UpdateUser(user *models.User) error {
	return s.userRepo.Update(user)
}

func (s *userService) DeleteUser(id uint) error {
	return s.userRepo.Delete(id)
}

func validRole(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleAgent, models.RoleSalesExecutive, models.RoleAccountant:
		return true
	}
	return false
}
