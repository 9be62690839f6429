package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// sqlStore implements SessionStore on top of database/sql. The postgres and
// sqlite constructors differ only in driver, DSN and placeholder syntax.
type sqlStore struct {
	db      *sql.DB
	queries queries
}

type queries struct {
	insert        string
	selectByID    string
	selectByToken string
	update        string
}

func (st *sqlStore) Create(ctx context.Context, token string) (*Record, error) {
	now := time.Now()
	rec := &Record{
		ID:              uuid.New().String(),
		CampgroundID:    uuid.New().String(),
		Token:           token,
		Data:            make(map[string]any),
		IdempotencyKeys: make(map[string]string),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	dataJSON, completedJSON, keysJSON, err := marshalRecord(rec)
	if err != nil {
		return nil, err
	}
	_, err = st.db.ExecContext(ctx, st.queries.insert,
		rec.ID, rec.CampgroundID, rec.CampgroundSlug, rec.Token,
		rec.CurrentStep, rec.InventoryPath, completedJSON, dataJSON, keysJSON,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return rec, nil
}

func (st *sqlStore) GetByID(ctx context.Context, id string) (*Record, error) {
	return st.scanOne(st.db.QueryRowContext(ctx, st.queries.selectByID, id))
}

func (st *sqlStore) GetByToken(ctx context.Context, token string) (*Record, error) {
	return st.scanOne(st.db.QueryRowContext(ctx, st.queries.selectByToken, token))
}

func (st *sqlStore) SaveStep(ctx context.Context, params SaveStepParams) (*Record, error) {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := st.scanOne(tx.QueryRowContext(ctx, st.queries.selectByID, params.SessionID))
	if err != nil {
		return nil, err
	}
	if params.IdempotencyKey != "" && rec.IdempotencyKeys[params.Step] == params.IdempotencyKey {
		return rec, nil
	}

	applySave(rec, params)
	if err := st.writeBack(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session update: %w", err)
	}
	return rec, nil
}

func (st *sqlStore) SetGatewayLinked(ctx context.Context, id, accountID string) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := st.scanOne(tx.QueryRowContext(ctx, st.queries.selectByID, id))
	if err != nil {
		return err
	}
	markGatewayLinked(rec, accountID)
	if err := st.writeBack(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session update: %w", err)
	}
	return nil
}

func (st *sqlStore) Close() error {
	return st.db.Close()
}

func (st *sqlStore) writeBack(ctx context.Context, tx *sql.Tx, rec *Record) error {
	dataJSON, completedJSON, keysJSON, err := marshalRecord(rec)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, st.queries.update,
		rec.CampgroundSlug, rec.CurrentStep, rec.InventoryPath,
		completedJSON, dataJSON, keysJSON, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (st *sqlStore) scanOne(row rowScanner) (*Record, error) {
	var rec Record
	var completedJSON, dataJSON, keysJSON []byte
	err := row.Scan(
		&rec.ID, &rec.CampgroundID, &rec.CampgroundSlug, &rec.Token,
		&rec.CurrentStep, &rec.InventoryPath, &completedJSON, &dataJSON,
		&keysJSON, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	if len(completedJSON) > 0 {
		if err := json.Unmarshal(completedJSON, &rec.CompletedSteps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal completed steps: %w", err)
		}
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
		}
	}
	if len(keysJSON) > 0 {
		if err := json.Unmarshal(keysJSON, &rec.IdempotencyKeys); err != nil {
			return nil, fmt.Errorf("failed to unmarshal idempotency keys: %w", err)
		}
	}
	if rec.Data == nil {
		rec.Data = make(map[string]any)
	}
	if rec.IdempotencyKeys == nil {
		rec.IdempotencyKeys = make(map[string]string)
	}
	return &rec, nil
}

func marshalRecord(rec *Record) (dataJSON, completedJSON, keysJSON []byte, err error) {
	if dataJSON, err = json.Marshal(rec.Data); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	completed := rec.CompletedSteps
	if completed == nil {
		completed = []string{}
	}
	if completedJSON, err = json.Marshal(completed); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal completed steps: %w", err)
	}
	if keysJSON, err = json.Marshal(rec.IdempotencyKeys); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal idempotency keys: %w", err)
	}
	return dataJSON, completedJSON, keysJSON, nil
}
