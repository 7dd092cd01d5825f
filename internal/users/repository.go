package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
)

// ErrDuplicateUsername signals a username collision on create.
var ErrDuplicateUsername = errors.New("el usuario ya existe")

// Repository is the persistence surface for account administration.
type Repository interface {
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, username, passwordHash, role, fullName string) (Account, error)
	Update(ctx context.Context, id int64, passwordHash, role, fullName *string) (Account, error)
	SetActive(ctx context.Context, id int64, active bool) (Account, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, username, rol, COALESCE(nombre_completo, ''), estado, created_at, ultimo_acceso`

func (r *PGRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM usuarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("listar usuarios: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, username, passwordHash, role, fullName string) (Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO usuarios (username, password_hash, rol, nombre_completo, estado, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), TRUE, NOW())
		RETURNING `+accountColumns,
		username, passwordHash, role, fullName)

	a, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrDuplicateUsername
		}
		return Account{}, fmt.Errorf("crear usuario: %w", err)
	}
	return a, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, passwordHash, role, fullName *string) (Account, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if passwordHash != nil {
		add("password_hash", *passwordHash)
	}
	if role != nil {
		add("rol", *role)
	}
	if fullName != nil {
		add("nombre_completo", optionalText(*fullName))
	}
	if len(sets) == 0 {
		return r.get(ctx, id)
	}
	args = append(args, id)

	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`UPDATE usuarios SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns), args...)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, httpx.ErrNotFound
		}
		return Account{}, fmt.Errorf("actualizar usuario %d: %w", id, err)
	}
	return a, nil
}

func (r *PGRepository) SetActive(ctx context.Context, id int64, active bool) (Account, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE usuarios SET estado = $1 WHERE id = $2 RETURNING `+accountColumns, active, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, httpx.ErrNotFound
		}
		return Account{}, fmt.Errorf("cambiar estado del usuario %d: %w", id, err)
	}
	return a, nil
}

func (r *PGRepository) get(ctx context.Context, id int64) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM usuarios WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, httpx.ErrNotFound
		}
		return Account{}, fmt.Errorf("obtener usuario %d: %w", id, err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var (
		a          Account
		lastAccess pgtype.Timestamptz
	)
	if err := row.Scan(&a.ID, &a.Username, &a.Role, &a.FullName, &a.IsActive, &a.CreatedAt, &lastAccess); err != nil {
		return Account{}, err
	}
	if lastAccess.Valid {
		a.LastAccess = &lastAccess.Time
	}
	return a, nil
}

func optionalText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repository = (*PGRepository)(nil)
