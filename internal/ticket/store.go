package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the store needs.
// Defined by the consumer so tests can substitute a fake.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store persists tickets in PostgreSQL. Identity assignment is delegated to
// the tickets sequence, so concurrent creates always receive unique IDs.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     DB
	logger *slog.Logger
}

// NewStore creates a ticket store backed by the given database handle.
func NewStore(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

const ticketColumns = "id, text, action, reply, tags, reason, created_at, human_label"

// Create inserts a new ticket and returns it with the store-assigned ID and
// creation timestamp.
func (s *Store) Create(ctx context.Context, params CreateParams) (*Ticket, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO tickets (text, action, reply, tags, reason, human_label)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+ticketColumns,
		params.Text,
		params.Action,
		params.Reply,
		encodeTags(params.Tags),
		params.Reason,
		params.HumanLabel,
	)

	t, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	s.logger.Debug("created ticket", "id", t.ID, "action", t.Action)
	return t, nil
}

// Get retrieves a ticket by ID. Returns ErrNotFound if no such ticket exists.
func (s *Store) Get(ctx context.Context, id int64) (*Ticket, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)

	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting ticket %d: %w", id, err)
	}
	return t, nil
}

// UpdateHumanLabel records human feedback on a ticket. The human label is the
// only field a feedback operation may change. Returns ErrNotFound if no
// ticket exists for the ID.
func (s *Store) UpdateHumanLabel(ctx context.Context, id int64, label string) (*Ticket, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE tickets SET human_label = $2 WHERE id = $1
		 RETURNING `+ticketColumns,
		id, label)

	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating ticket %d feedback: %w", id, err)
	}

	s.logger.Debug("recorded ticket feedback", "id", id)
	return t, nil
}

// List returns tickets in insertion order with offset/limit pagination.
func (s *Store) List(ctx context.Context, skip, limit int32) ([]Ticket, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets ORDER BY id OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket row: %w", err)
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket rows: %w", err)
	}

	return tickets, nil
}

// scanTicket scans one ticket row, decoding the tags column.
func scanTicket(row pgx.Row) (*Ticket, error) {
	var (
		t    Ticket
		tags *string
	)
	err := row.Scan(&t.ID, &t.Text, &t.Action, &t.Reply, &tags, &t.Reason, &t.CreatedAt, &t.HumanLabel)
	if err != nil {
		return nil, err
	}
	t.Tags = decodeTags(tags)
	return &t, nil
}

// encodeTags serializes a tag set for storage: nil stays NULL, an empty set
// becomes the empty string, anything else is comma-joined.
func encodeTags(tags []string) *string {
	if tags == nil {
		return nil
	}
	joined := strings.Join(tags, ",")
	return &joined
}

// decodeTags is the inverse of encodeTags.
func decodeTags(tags *string) []string {
	if tags == nil {
		return nil
	}
	if *tags == "" {
		return []string{}
	}
	return strings.Split(*tags, ",")
}
