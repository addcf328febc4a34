package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/routing"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// TicketUpdate is a partial update applied to an existing ticket. Nil fields
// are left untouched.
type TicketUpdate struct {
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
	AssigneeTeam *string
	AssigneeUser *string
}

// TicketRepository encapsulates ticket persistence. It owns ticket identity
// assignment; the pipeline only reads tickets and requests updates.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, id int64, update TicketUpdate) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountRoutesByCategory(ctx context.Context, category domain.Category) ([]routing.RouteCount, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (source, source_ref, user_email, user_phone, subject, body, category, priority, status, assignee_team, assignee_user)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Source,
		ticket.SourceRef,
		ticket.UserEmail,
		ticket.UserPhone,
		ticket.Subject,
		ticket.Body,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.AssigneeTeam,
		ticket.AssigneeUser,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, id int64, update TicketUpdate) (*domain.Ticket, error) {
	sets := []string{}
	args := []any{}

	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.Priority != nil {
		args = append(args, *update.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if update.AssigneeTeam != nil {
		args = append(args, *update.AssigneeTeam)
		sets = append(sets, fmt.Sprintf("assignee_team=$%d", len(args)))
	}
	if update.AssigneeUser != nil {
		args = append(args, *update.AssigneeUser)
		sets = append(sets, fmt.Sprintf("assignee_user=$%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d
        RETURNING id, created_at, source, source_ref, user_email, user_phone,
                  subject, body, category, priority, status, assignee_team, assignee_user`,
		strings.Join(sets, ", "), len(args))

	return scanTicketRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, created_at, source, source_ref, user_email, user_phone,
               subject, body, category, priority, status, assignee_team, assignee_user
        FROM tickets WHERE id=$1`
	return scanTicketRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, created_at, source, source_ref, user_email, user_phone,
                    subject, body, category, priority, status, assignee_team, assignee_user
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// CountRoutesByCategory returns grouped (team, priority) counts for tickets
// of a category that have a team set. Ordering makes the dominant pair
// deterministic: count descending, then team ascending, then priority
// ascending.
func (r *ticketRepository) CountRoutesByCategory(ctx context.Context, category domain.Category) ([]routing.RouteCount, error) {
	const query = `
        SELECT assignee_team, priority, COUNT(*) AS cnt
        FROM tickets
        WHERE category=$1 AND assignee_team IS NOT NULL AND assignee_team <> ''
        GROUP BY assignee_team, priority
        ORDER BY cnt DESC, assignee_team ASC, priority ASC`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []routing.RouteCount
	for rows.Next() {
		var rc routing.RouteCount
		if err := rows.Scan(&rc.Team, &rc.Priority, &rc.Count); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.CreatedAt,
		&ticket.Source,
		&ticket.SourceRef,
		&ticket.UserEmail,
		&ticket.UserPhone,
		&ticket.Subject,
		&ticket.Body,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssigneeTeam,
		&ticket.AssigneeUser,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CreatedAt,
			&ticket.Source,
			&ticket.SourceRef,
			&ticket.UserEmail,
			&ticket.UserPhone,
			&ticket.Subject,
			&ticket.Body,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.AssigneeTeam,
			&ticket.AssigneeUser,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
