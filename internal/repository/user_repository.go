package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"microchat/internal/models"
)

const userColumns = `id, username, email, password_hash, about_me, avatar_url, last_seen,
	refresh_token, refresh_token_expiry_time`

type userRepository struct {
	db sqlx.ExtContext
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	AboutMe  string `json:"aboutMe"`
}

func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	user.ID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	if user.LastSeen.IsZero() {
		user.LastSeen = time.Now().UTC()
	}
	if user.RefreshTokenExpiryTime.IsZero() {
		user.RefreshTokenExpiryTime = user.LastSeen
	}

	query := `
		INSERT INTO "user" (id, username, email, password_hash, about_me, avatar_url, last_seen,
			refresh_token, refresh_token_expiry_time)
		VALUES (:id, :username, :email, :password_hash, :about_me, :avatar_url, :last_seen,
			:refresh_token, :refresh_token_expiry_time)
	`

	_, err = sqlx.NamedExecContext(ctx, r.db, query, user)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case "user_username_key":
				return fmt.Errorf("пользователь %s: %w", user.Username, models.ErrDuplicateUsername)
			case "user_email_key":
				return fmt.Errorf("пользователь с email %s: %w", user.Email, models.ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

func (r *userRepository) getOne(ctx context.Context, what, where string, arg interface{}) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM "user" WHERE ` + where + ` = $1`

	err := sqlx.GetContext(ctx, r.db, &user, query, arg)
	if err != nil {
		if noRow(err) {
			return nil, fmt.Errorf("пользователь %s %v: %w", what, arg, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, "с ID", "id", userID)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "с именем", "username", username)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "с email", "email", email)
}

func (r *userRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	// checking that the password hash is the same
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `UPDATE "user" SET username = $1, about_me = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.AboutMe, user.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "user_username_key" {
			return fmt.Errorf("пользователь %s: %w", user.Username, models.ErrDuplicateUsername)
		}
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пользователь с ID %s", user.ID))
}

func (r *userRepository) UpdateLastSeen(ctx context.Context, userID string, seen time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE "user" SET last_seen = $1 WHERE id = $2`, seen, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении времени последнего визита: %w", err)
	}

	return nil
}

func (r *userRepository) SetAvatar(ctx context.Context, userID string, data []byte, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE "user" SET avatar = $1, avatar_url = $2 WHERE id = $3`, data, url, userID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении аватара: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пользователь с ID %s", userID))
}

func (r *userRepository) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	return getBlob(ctx, r.db, `SELECT avatar FROM "user" WHERE id = $1`, userID, "аватар пользователя")
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE "user"
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE id = $3
	`

	_, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении refresh token: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User

	query := `
		SELECT ` + userColumns + ` FROM "user"
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`

	err := sqlx.GetContext(ctx, r.db, &user, query, refreshToken)
	if err != nil {
		if noRow(err) {
			return nil, fmt.Errorf("недействительный или просроченный refresh token: %w", models.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по refresh token: %w", err)
	}

	return &user, nil
}

func expectOneRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}

	return nil
}

// getBlob reads a single nullable bytea column. A missing row and a NULL
// value are both reported as ErrNotFound.
func getBlob(ctx context.Context, q sqlx.QueryerContext, query, id, what string) ([]byte, error) {
	var data []byte

	err := sqlx.GetContext(ctx, q, &data, query, id)
	if err != nil {
		if noRow(err) {
			return nil, fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при чтении изображения: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}

	return data, nil
}

// prefixed qualifies every column of a comma separated list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
