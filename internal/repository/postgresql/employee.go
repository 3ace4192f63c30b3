package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, full_name, external_id, leader_id, secondary_leader_id,
	is_apprentice, expected_daily_minutes, no_punch_required, works_saturday,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.FullName,
		&emp.ExternalID,
		&emp.LeaderID,
		&emp.SecondaryLeaderID,
		&emp.IsApprentice,
		&emp.ExpectedDailyMinutes,
		&emp.NoPunchRequired,
		&emp.WorksSaturday,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees ORDER BY full_name`, employeeColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *employeeRepository) GetByExternalID(ctx context.Context, externalID string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE external_id = $1`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by external id: %w", err)
	}
	return &emp, nil
}

func (r *employeeRepository) GetByName(ctx context.Context, name string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE lower(trim(full_name)) = lower(trim($1))`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by name: %w", err)
	}
	return &emp, nil
}

func (r *employeeRepository) GetByLeader(ctx context.Context, leaderID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE leader_id = $1 OR secondary_leader_id = $1
		ORDER BY full_name
	`, employeeColumns)

	rows, err := q.Query(ctx, query, leaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by leader: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *employeeRepository) LinkExternalID(ctx context.Context, id string, externalID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employees SET external_id = $1, updated_at = $2 WHERE id = $3`

	tag, err := q.Exec(ctx, query, externalID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to link external id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			leader_id = COALESCE($1, leader_id),
			secondary_leader_id = COALESCE($2, secondary_leader_id),
			is_apprentice = COALESCE($3, is_apprentice),
			expected_daily_minutes = COALESCE($4, expected_daily_minutes),
			no_punch_required = COALESCE($5, no_punch_required),
			works_saturday = COALESCE($6, works_saturday),
			updated_at = $7
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		req.LeaderID,
		req.SecondaryLeaderID,
		req.IsApprentice,
		req.ExpectedDailyMinutes,
		req.NoPunchRequired,
		req.WorksSaturday,
		time.Now(),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}
	return employees, nil
}

type leaderRepository struct {
	db *database.DB
}

// NewLeaderRepository creates a new leader repository
func NewLeaderRepository(db *database.DB) employee.LeaderRepository {
	return &leaderRepository{db: db}
}

func (r *leaderRepository) GetByID(ctx context.Context, id string) (employee.Leader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, email, slack_id, created_at, updated_at
		FROM leaders WHERE id = $1
	`

	var l employee.Leader
	err := q.QueryRow(ctx, query, id).Scan(&l.ID, &l.FullName, &l.Email, &l.SlackID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Leader{}, employee.ErrLeaderNotFound
		}
		return employee.Leader{}, fmt.Errorf("failed to get leader: %w", err)
	}
	return l, nil
}

func (r *leaderRepository) GetAll(ctx context.Context) ([]employee.Leader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, email, slack_id, created_at, updated_at
		FROM leaders ORDER BY full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaders: %w", err)
	}
	defer rows.Close()

	var leaders []employee.Leader
	for rows.Next() {
		var l employee.Leader
		if err := rows.Scan(&l.ID, &l.FullName, &l.Email, &l.SlackID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leader: %w", err)
		}
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaders: %w", err)
	}
	return leaders, nil
}
