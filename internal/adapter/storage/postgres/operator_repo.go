package postgres

import (
	"context"
	"errors"
	"fmt"

	"batched-savings-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OperatorRepo implements ports.OperatorRepository.
type OperatorRepo struct {
	pool Pool
}

// NewOperatorRepo creates a new OperatorRepo.
func NewOperatorRepo(pool Pool) *OperatorRepo {
	return &OperatorRepo{pool: pool}
}

const operatorColumns = `id, username, password_hash, operator_name, address, access_key, secret_key_enc, status, created_at`

// Create inserts a new operator account into the database.
func (r *OperatorRepo) Create(ctx context.Context, op *domain.Operator) error {
	query := `INSERT INTO operators (id, username, password_hash, operator_name, address, access_key, secret_key_enc, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		op.ID, op.Username, op.PasswordHash, op.Name, op.Address,
		op.AccessKey, op.SecretKeyEnc, op.Status, op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

// GetByID fetches an operator by its UUID.
func (r *OperatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "id")
}

// GetByAccessKey fetches an operator by its public access key.
func (r *OperatorRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE access_key = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, accessKey), "access_key")
}

// GetByUsername fetches an operator by username.
func (r *OperatorRepo) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE username = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username), "username")
}

func (r *OperatorRepo) scanOne(row pgx.Row, by string) (*domain.Operator, error) {
	op := &domain.Operator{}
	err := row.Scan(
		&op.ID, &op.Username, &op.PasswordHash, &op.Name, &op.Address,
		&op.AccessKey, &op.SecretKeyEnc, &op.Status, &op.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator by %s: %w", by, err)
	}
	return op, nil
}
