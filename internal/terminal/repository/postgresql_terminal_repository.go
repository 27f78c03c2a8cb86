package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/posrecovery/internal/database"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// pgUniqueViolation is the SQLSTATE raised for duplicate primary keys.
const pgUniqueViolation = "23505"

// PostgreSQLTerminalRepository implements terminal persistence for PostgreSQL.
//
// Database schema requirements:
//   - id: VARCHAR(64) PRIMARY KEY
//   - name, address: TEXT
//   - port: INTEGER
//   - capabilities: TEXT (JSON array)
//   - encrypted_api_key: BYTEA
//   - created_at, updated_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLTerminalRepository struct {
	db *sql.DB
}

// Create inserts a new terminal. A duplicate id yields terminalDomain.ErrTerminalAlreadyExists.
func (p *PostgreSQLTerminalRepository) Create(ctx context.Context, term *terminalDomain.Terminal) error {
	querier := database.GetTx(ctx, p.db)

	capabilities, err := encodeCapabilities(term.Capabilities)
	if err != nil {
		return err
	}

	query := `INSERT INTO terminals (` + terminalColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		term.ID,
		term.Name,
		term.Address,
		term.Port,
		capabilities,
		term.EncryptedAPIKey,
		term.CreatedAt,
		term.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return terminalDomain.ErrTerminalAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create terminal")
	}
	return nil
}

// Get retrieves a terminal by id or returns terminalDomain.ErrTerminalNotFound.
func (p *PostgreSQLTerminalRepository) Get(ctx context.Context, id string) (*terminalDomain.Terminal, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + terminalColumns + ` FROM terminals WHERE id = $1`

	term, err := scanTerminal(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, terminalDomain.ErrTerminalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get terminal")
	}
	return term, nil
}

// List returns every configured terminal ordered by id.
func (p *PostgreSQLTerminalRepository) List(ctx context.Context) ([]*terminalDomain.Terminal, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + terminalColumns + ` FROM terminals ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list terminals")
	}
	defer func() {
		_ = rows.Close()
	}()

	terminals := make([]*terminalDomain.Terminal, 0)
	for rows.Next() {
		term, err := scanTerminal(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan terminal")
		}
		terminals = append(terminals, term)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate terminals")
	}

	return terminals, nil
}

// NewPostgreSQLTerminalRepository creates a new PostgreSQL terminal repository.
func NewPostgreSQLTerminalRepository(db *sql.DB) *PostgreSQLTerminalRepository {
	return &PostgreSQLTerminalRepository{db: db}
}

func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
