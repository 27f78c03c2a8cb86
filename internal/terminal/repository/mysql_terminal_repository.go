package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/posrecovery/internal/database"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLTerminalRepository implements terminal persistence for MySQL.
//
// Database schema requirements:
//   - id: VARCHAR(64) PRIMARY KEY
//   - name, address: VARCHAR(255)
//   - port: INT
//   - capabilities: TEXT (JSON array)
//   - encrypted_api_key: BLOB
//   - created_at, updated_at: DATETIME(6)
type MySQLTerminalRepository struct {
	db *sql.DB
}

// Create inserts a new terminal. A duplicate id yields terminalDomain.ErrTerminalAlreadyExists.
func (m *MySQLTerminalRepository) Create(ctx context.Context, term *terminalDomain.Terminal) error {
	querier := database.GetTx(ctx, m.db)

	capabilities, err := encodeCapabilities(term.Capabilities)
	if err != nil {
		return err
	}

	query := `INSERT INTO terminals (` + terminalColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

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
		if isMySQLUniqueViolation(err) {
			return terminalDomain.ErrTerminalAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create terminal")
	}
	return nil
}

// Get retrieves a terminal by id or returns terminalDomain.ErrTerminalNotFound.
func (m *MySQLTerminalRepository) Get(ctx context.Context, id string) (*terminalDomain.Terminal, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + terminalColumns + ` FROM terminals WHERE id = ?`

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
func (m *MySQLTerminalRepository) List(ctx context.Context) ([]*terminalDomain.Terminal, error) {
	querier := database.GetTx(ctx, m.db)

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

// NewMySQLTerminalRepository creates a new MySQL terminal repository.
func NewMySQLTerminalRepository(db *sql.DB) *MySQLTerminalRepository {
	return &MySQLTerminalRepository{db: db}
}

func isMySQLUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
