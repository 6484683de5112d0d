package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
)

// DisposisiRepository stores the append-only routing history. Forward is
// the single atomic hand-off operation: record appended, ticket assignee
// and status updated, in one transaction. A partial forward is never
// observable.
type DisposisiRepository interface {
	Forward(ctx context.Context, ticket *domain.Ticket, expectedUpdatedAt time.Time, record *domain.DisposisiRecord) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.DisposisiRecord, error)
}

type disposisiRepository struct {
	pool *pgxpool.Pool
}

// NewDisposisiRepository builds repository.
func NewDisposisiRepository(pool *pgxpool.Pool) DisposisiRepository {
	return &disposisiRepository{pool: pool}
}

func (r *disposisiRepository) Forward(ctx context.Context, ticket *domain.Ticket, expectedUpdatedAt time.Time, record *domain.DisposisiRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := lockTicketRow(ctx, tx, ticket.ID); err != nil {
		return err
	}
	if err := applyTicketUpdate(ctx, tx, ticket, expectedUpdatedAt); err != nil {
		return err
	}

	record.TicketID = ticket.ID
	const insert = `
        INSERT INTO disposisi_records (ticket_id, from_actor, to_actor, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		record.TicketID,
		record.FromActor,
		record.ToActor,
		record.Note,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *disposisiRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.DisposisiRecord, error) {
	const query = `
        SELECT id, ticket_id, from_actor, to_actor, note, created_at
        FROM disposisi_records WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDisposisiRecords(rows)
}

func scanDisposisiRecords(rows pgx.Rows) ([]domain.DisposisiRecord, error) {
	var result []domain.DisposisiRecord
	for rows.Next() {
		var record domain.DisposisiRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.FromActor,
			&record.ToActor,
			&record.Note,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
