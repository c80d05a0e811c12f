package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// RESOURCES
// =============================================================================

const resourceColumns = `resource_id, resource_name, resource_email, resource_type, resource_role,
	strategic_portfolio, product_line, manager_name, manager_email,
	yearly_capacity, blended_rate, timesheet_resource_name`

// SaveResource inserts a resource, or replaces it when the id is set.
func (s *Store) SaveResource(ctx context.Context, r generic.Resource) (generic.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.upsert(ctx, "resources", "resource_id", int64(r.ID), []column{
		{"resource_name", r.Name},
		{"resource_email", r.Email},
		{"resource_type", r.Type},
		{"resource_role", r.Role},
		{"strategic_portfolio", r.StrategicPortfolio},
		{"product_line", r.ProductLine},
		{"manager_name", r.ManagerName},
		{"manager_email", r.ManagerEmail},
		{"yearly_capacity", r.YearlyCapacity},
		{"blended_rate", r.BlendedRate},
		{"timesheet_resource_name", r.TimesheetName},
	})
	if err != nil {
		return r, fmt.Errorf("failed to save resource: %w", err)
	}
	r.ID = generic.ResourceID(id)
	return r, nil
}

// GetResource retrieves a resource by ID.
func (s *Store) GetResource(ctx context.Context, id generic.ResourceID) (*generic.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+resourceColumns+" FROM "+s.table("resources")+" WHERE resource_id = $1", int64(id))
	r, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &generic.ResourceNotFoundError{ResourceID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource %d: %w", id, err)
	}
	return &r, nil
}

// ListResources returns resources matching the filter, by id.
func (s *Store) ListResources(ctx context.Context, filter generic.ResourceFilter) ([]generic.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+resourceColumns+`
		FROM `+s.table("resources")+`
		WHERE ($1 = '' OR strategic_portfolio = $1)
		  AND ($2 = '' OR product_line = $2)
		ORDER BY resource_id`,
		filter.StrategicPortfolio, filter.ProductLine,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	out := []generic.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StrategicPortfolios returns the distinct non-empty portfolios of the roster.
func (s *Store) StrategicPortfolios(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryStrings(ctx, `
		SELECT DISTINCT strategic_portfolio FROM `+s.table("resources")+`
		WHERE strategic_portfolio <> ''
		ORDER BY strategic_portfolio`)
}

// ProductLines returns the distinct product lines within a portfolio.
func (s *Store) ProductLines(ctx context.Context, portfolio string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryStrings(ctx, `
		SELECT DISTINCT product_line FROM `+s.table("resources")+`
		WHERE strategic_portfolio = $1 AND product_line <> ''
		ORDER BY product_line`, portfolio)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(row scanner) (generic.Resource, error) {
	var r generic.Resource
	var rate decimal.NullDecimal
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Type, &r.Role,
		&r.StrategicPortfolio, &r.ProductLine, &r.ManagerName, &r.ManagerEmail,
		&r.YearlyCapacity, &rate, &r.TimesheetName)
	if err != nil {
		return r, err
	}
	if rate.Valid {
		r.BlendedRate = rate.Decimal
	}
	return r, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

const projectColumns = `project_id, project_name, strategic_portfolio, product_line,
	start_date_est, end_date_est, timesheet_project_name`

// SaveProject inserts a project, or replaces it when the id is set.
func (s *Store) SaveProject(ctx context.Context, p generic.Project) (generic.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.upsert(ctx, "projects", "project_id", int64(p.ID), []column{
		{"project_name", p.Name},
		{"strategic_portfolio", p.StrategicPortfolio},
		{"product_line", p.ProductLine},
		{"start_date_est", nullDateArg(p.StartDateEst)},
		{"end_date_est", nullDateArg(p.EndDateEst)},
		{"timesheet_project_name", p.TimesheetName},
	})
	if err != nil {
		return p, fmt.Errorf("failed to save project: %w", err)
	}
	p.ID = generic.ProjectID(id)
	return p, nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id generic.ProjectID) (*generic.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM "+s.table("projects")+" WHERE project_id = $1", int64(id))
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, generic.ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return &p, nil
}

// ListProjects returns all projects by id.
func (s *Store) ListProjects(ctx context.Context) ([]generic.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM "+s.table("projects")+" ORDER BY project_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []generic.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProjectNames maps the known ids to project names.
func (s *Store) ProjectNames(ctx context.Context, ids []generic.ProjectID) (map[generic.ProjectID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[generic.ProjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT project_id, project_name FROM "+s.table("projects")+
			" WHERE project_id IN ("+placeholders(1, len(ids))+")",
		projectArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load project names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id generic.ProjectID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func scanProject(row scanner) (generic.Project, error) {
	var p generic.Project
	var start, end dateColumn
	if err := row.Scan(&p.ID, &p.Name, &p.StrategicPortfolio, &p.ProductLine, &start, &end, &p.TimesheetName); err != nil {
		return p, err
	}
	p.StartDateEst, p.EndDateEst = start.ptr(), end.ptr()
	return p, nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

const allocationColumns = `allocation_id, resource_id, project_id,
	allocation_start_date, allocation_end_date, allocation_pct, allocation_hrs_per_week`

// SaveAllocation inserts an allocation, or replaces it when the id is set.
// Unknown resources or projects are rejected as validation errors.
func (s *Store) SaveAllocation(ctx context.Context, a generic.Allocation) (generic.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.upsert(ctx, "resource_allocation", "allocation_id", int64(a.ID), []column{
		{"resource_id", int64(a.ResourceID)},
		{"project_id", int64(a.ProjectID)},
		{"allocation_start_date", dateArg(a.Start)},
		{"allocation_end_date", dateArg(a.End)},
		{"allocation_pct", nullFloatArg(a.Pct)},
		{"allocation_hrs_per_week", nullFloatArg(a.HrsPerWeek)},
	})
	if err != nil {
		return a, constraintError(err, "resource_id/project_id")
	}
	a.ID = generic.AllocationID(id)
	return a, nil
}

// DeleteAllocation removes one allocation.
func (s *Store) DeleteAllocation(ctx context.Context, id generic.AllocationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+s.table("resource_allocation")+" WHERE allocation_id = $1", int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete allocation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("allocation %d: %w", id, generic.ErrAllocationNotFound)
	}
	return nil
}

// AllocationsForResource returns allocations overlapping the period.
func (s *Store) AllocationsForResource(ctx context.Context, id generic.ResourceID, period generic.Period) ([]generic.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAllocations(ctx, `
		SELECT `+allocationColumns+`
		FROM `+s.table("resource_allocation")+`
		WHERE resource_id = $1
		  AND allocation_start_date <= $2
		  AND allocation_end_date >= $3
		ORDER BY allocation_id`,
		int64(id), dateArg(period.End), dateArg(period.Start),
	)
}

// AllocationsForProjects returns every allocation of the given projects.
func (s *Store) AllocationsForProjects(ctx context.Context, ids []generic.ProjectID) ([]generic.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return []generic.Allocation{}, nil
	}
	return s.queryAllocations(ctx, `
		SELECT `+allocationColumns+`
		FROM `+s.table("resource_allocation")+`
		WHERE project_id IN (`+placeholders(1, len(ids))+`)
		ORDER BY allocation_id`,
		projectArgs(ids)...,
	)
}

func (s *Store) queryAllocations(ctx context.Context, query string, args ...any) ([]generic.Allocation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	out := []generic.Allocation{}
	for rows.Next() {
		var a generic.Allocation
		var start, end dateColumn
		var pct, hrs sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.ResourceID, &a.ProjectID, &start, &end, &pct, &hrs); err != nil {
			return nil, err
		}
		a.Start, a.End = start.Date, end.Date
		a.Pct, a.HrsPerWeek = floatPtr(pct), floatPtr(hrs)
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// TIME-OFF
// =============================================================================

// SaveTimeOff records a time-off range. A missing id is generated.
func (s *Store) SaveTimeOff(ctx context.Context, t generic.TimeOff) (generic.TimeOff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+s.table("timeoff")+`
		(timeoff_id, resource_id, timeoff_start_date, timeoff_end_date, reason)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, int64(t.ResourceID), dateArg(t.Start), dateArg(t.End), t.Reason,
	)
	if err != nil {
		return t, constraintError(err, "resource_id")
	}
	return t, nil
}

// TimeOffForResource returns time-off ranges overlapping the period.
func (s *Store) TimeOffForResource(ctx context.Context, id generic.ResourceID, period generic.Period) ([]generic.TimeOff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT timeoff_id, resource_id, timeoff_start_date, timeoff_end_date, reason
		FROM `+s.table("timeoff")+`
		WHERE resource_id = $1
		  AND timeoff_start_date <= $2
		  AND timeoff_end_date >= $3
		ORDER BY timeoff_start_date`,
		int64(id), dateArg(period.End), dateArg(period.Start),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query time-off: %w", err)
	}
	defer rows.Close()

	out := []generic.TimeOff{}
	for rows.Next() {
		var t generic.TimeOff
		var start, end dateColumn
		if err := rows.Scan(&t.ID, &t.ResourceID, &start, &end, &t.Reason); err != nil {
			return nil, err
		}
		t.Start, t.End = start.Date, end.Date
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// TIMESHEET
// =============================================================================

// SaveTimesheetEntry records logged hours. A missing id is generated.
func (s *Store) SaveTimesheetEntry(ctx context.Context, e generic.TimesheetEntry) (generic.TimesheetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+s.table("timesheet_entry")+`
		(ts_entry_id, resource_id, project_id, ts_entry_date, ts_total_hrs)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, int64(e.ResourceID), int64(e.ProjectID), dateArg(e.Date), e.Hours,
	)
	if err != nil {
		return e, constraintError(err, "resource_id/project_id")
	}
	return e, nil
}

// ActualsForResource sums one resource's hours per project and day.
func (s *Store) ActualsForResource(ctx context.Context, id generic.ResourceID, period generic.Period) ([]generic.TimesheetActual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryActuals(ctx, `
		SELECT resource_id, project_id, ts_entry_date, SUM(ts_total_hrs)
		FROM `+s.table("timesheet_entry")+`
		WHERE resource_id = $1 AND ts_entry_date BETWEEN $2 AND $3
		GROUP BY resource_id, project_id, ts_entry_date
		ORDER BY ts_entry_date, resource_id, project_id`,
		int64(id), dateArg(period.Start), dateArg(period.End),
	)
}

// ActualsForProjects sums every resource's hours on the projects per day.
func (s *Store) ActualsForProjects(ctx context.Context, ids []generic.ProjectID) ([]generic.TimesheetActual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return []generic.TimesheetActual{}, nil
	}
	return s.queryActuals(ctx, `
		SELECT resource_id, project_id, ts_entry_date, SUM(ts_total_hrs)
		FROM `+s.table("timesheet_entry")+`
		WHERE project_id IN (`+placeholders(1, len(ids))+`)
		GROUP BY resource_id, project_id, ts_entry_date
		ORDER BY ts_entry_date, resource_id, project_id`,
		projectArgs(ids)...,
	)
}

func (s *Store) queryActuals(ctx context.Context, query string, args ...any) ([]generic.TimesheetActual, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet: %w", err)
	}
	defer rows.Close()

	out := []generic.TimesheetActual{}
	for rows.Next() {
		var a generic.TimesheetActual
		var day dateColumn
		if err := rows.Scan(&a.ResourceID, &a.ProjectID, &day, &a.Hours); err != nil {
			return nil, err
		}
		a.Date = day.Date
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type column struct {
	name  string
	value any
}

// upsert inserts a row and returns its id. A zero id lets the database assign
// one; otherwise the row with that id is inserted or overwritten.
func (s *Store) upsert(ctx context.Context, table, idColumn string, id int64, cols []column) (int64, error) {
	names := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	if id != 0 {
		names = append(names, idColumn)
		args = append(args, id)
	}
	for _, c := range cols {
		names = append(names, c.name)
		args = append(args, c.value)
	}

	query := "INSERT INTO " + s.table(table) + " (" + strings.Join(names, ", ") + ")" +
		" VALUES (" + placeholders(1, len(args)) + ")"
	if id != 0 {
		updates := make([]string, len(cols))
		for i, c := range cols {
			updates[i] = c.name + " = excluded." + c.name
		}
		query += " ON CONFLICT (" + idColumn + ") DO UPDATE SET " + strings.Join(updates, ", ")
	}
	query += " RETURNING " + idColumn

	var out int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&out); err != nil {
		return 0, err
	}
	return out, nil
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
