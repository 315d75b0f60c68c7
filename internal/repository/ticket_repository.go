package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Listings are newest first.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.Ticket, error)
	// NextNumber reserves the next display sequence.
	NextNumber(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, number, code, branch, service, category, sub_category, network,
               title, description, attachment_name, submitted_at, status, priority, assignee,
               reporter_name, reporter_email, reporter_phone, reporter_id, tags, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, seq, number, code, branch, service, category, sub_category, network,
            title, description, attachment_name, submitted_at, status, priority, assignee,
            reporter_name, reporter_email, reporter_phone, reporter_id, tags, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`
	seq, _ := domain.ParseTicketNumber(ticket.Number)
	if _, err := r.pool.Exec(ctx, query,
		ticket.ID,
		seq,
		ticket.Number,
		ticket.Code,
		ticket.Branch,
		ticket.Service,
		ticket.Category,
		ticket.SubCategory,
		ticket.Network,
		ticket.Title,
		ticket.Description,
		ticket.AttachmentName,
		ticket.Timestamp,
		ticket.Status,
		ticket.Priority,
		ticket.Assignee,
		ticket.ReporterName,
		ticket.ReporterEmail,
		ticket.ReporterPhone,
		ticket.ReporterID,
		ticket.Tags,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	); err != nil {
		return err
	}
	// Keep the sequence ahead of numbers inserted verbatim, e.g. seed tickets.
	const bump = `SELECT setval('ticket_number_seq', GREATEST($1, last_value)) FROM ticket_number_seq`
	_, err := r.pool.Exec(ctx, bump, seq)
	return err
}

// Update persists the mutable fields only: status, assignee and updated_at.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assignee=$2, updated_at=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.Assignee,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC, seq DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE reporter_id=$1 ORDER BY created_at DESC, seq DESC`
	rows, err := r.pool.Query(ctx, query, reporterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) NextNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('ticket_number_seq')`).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *ticketRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Code,
		&ticket.Branch,
		&ticket.Service,
		&ticket.Category,
		&ticket.SubCategory,
		&ticket.Network,
		&ticket.Title,
		&ticket.Description,
		&ticket.AttachmentName,
		&ticket.Timestamp,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Assignee,
		&ticket.ReporterName,
		&ticket.ReporterEmail,
		&ticket.ReporterPhone,
		&ticket.ReporterID,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
