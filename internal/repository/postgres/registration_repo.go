package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"communityevents/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository creates a RegistrationRepository backed by
// postgres.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

const registrationColumns = `id, event_slug, slack_user_id, name, email, organisation,
		attendance_type, attending_social_event, dietary, comments, status,
		registered_at, updated_at, metadata`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	metadata, err := marshalMetadata(reg.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO registrations (event_slug, slack_user_id, name, email, organisation,
			attendance_type, attending_social_event, dietary, comments, status,
			registered_at, updated_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		reg.EventSlug, reg.SlackUserID, reg.Name, reg.Email, reg.Organisation,
		reg.AttendanceType, nullBool(reg.AttendingSocialEvent), reg.Dietary, reg.Comments,
		reg.Status, reg.RegisteredAt, reg.UpdatedAt, metadata,
	).Scan(&reg.ID)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_slug = $1 AND slack_user_id = $2
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, eventSlug, slackUserID))
}

func (r *registrationRepository) List(ctx context.Context, filter domain.RegistrationFilter) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
	`
	var conds []string
	var args []any
	if filter.EventSlug != "" {
		args = append(args, filter.EventSlug)
		conds = append(conds, "event_slug = $"+strconv.Itoa(len(args)))
	}
	if filter.SlackUserID != "" {
		args = append(args, filter.SlackUserID)
		conds = append(conds, "slack_user_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY registered_at ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []*domain.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	metadata, err := marshalMetadata(reg.Metadata)
	if err != nil {
		return err
	}
	query := `
		UPDATE registrations
		SET slack_user_id = $2, name = $3, email = $4, organisation = $5,
			attendance_type = $6, attending_social_event = $7, dietary = $8,
			comments = $9, status = $10, updated_at = $11, metadata = $12
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		reg.ID, reg.SlackUserID, reg.Name, reg.Email, reg.Organisation,
		reg.AttendanceType, nullBool(reg.AttendingSocialEvent), reg.Dietary,
		reg.Comments, reg.Status, reg.UpdatedAt, metadata,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) CountPhysicalAttendees(ctx context.Context, eventSlug string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_slug = $1 AND attendance_type = $2 AND status IN ($3, $4)
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query,
		eventSlug, domain.AttendancePhysical, domain.StatusConfirmed, domain.StatusAttended,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *registrationRepository) scanOne(row *sql.Row) (*domain.Registration, error) {
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var social sql.NullBool
	var metadata []byte
	err := row.Scan(
		&reg.ID, &reg.EventSlug, &reg.SlackUserID, &reg.Name, &reg.Email, &reg.Organisation,
		&reg.AttendanceType, &social, &reg.Dietary, &reg.Comments, &reg.Status,
		&reg.RegisteredAt, &reg.UpdatedAt, &metadata,
	)
	if err != nil {
		return nil, err
	}
	if social.Valid {
		reg.AttendingSocialEvent = &social.Bool
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &reg.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return reg, nil
}

func marshalMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
