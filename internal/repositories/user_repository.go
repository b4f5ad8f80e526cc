package repositories

import (
	"github.com/conduit-go/backend/internal/models"
	"gorm.io/gorm"
)

// Columns selected on ordinary user reads. The password hash is excluded at
// the data-access layer; only the login lookup loads it.
const userColumns = "id, created_at, updated_at, email, username, bio, image"

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmailWithPassword(email string) (*models.User, error)
	UpdateUser(user *models.User) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser persists a new user. The password field must already be hashed.
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID, password excluded
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Select(userColumns).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, password excluded
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Select(userColumns).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, password excluded
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Select(userColumns).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailWithPassword retrieves a user by email including the stored
// password hash. Used only by the login flow for credential comparison.
func (r *PostgresUserRepository) GetUserByEmailWithPassword(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user. Users are loaded without their
// password hash, so the password column is written only when the caller
// has set a new hash.
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	if user.Password == "" {
		return r.db.Omit("password").Save(user).Error
	}
	return r.db.Save(user).Error
}
