/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates resources, projects,
	allocations, time-off and timesheet actuals that exercise specific
	capacity views.

AVAILABLE SCENARIOS:

	single-engineer: One engineer on two projects, a vacation week, actuals
	product-team:    A portfolio with two product lines and mixed roles
	over-allocated:  Overlapping allocations above 100% of capacity
	project-rollout: A project with estimated dates and staggered staffing

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create resources and projects
 3. Allocate resources to projects (pct or hours per week)
 4. Add time-off ranges
 5. Log timesheet hours for the first weeks of the year

All dates fall in the current year so the default query range shows them.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "product-team"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(s *seeder)
 3. Add case to loadScenario

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler and helpers
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "single-engineer",
		Name:        "Single Engineer",
		Description: "One engineer split across two projects with a vacation week and logged hours",
		Category:    "resource",
	},
	{
		ID:          "product-team",
		Name:        "Product Team",
		Description: "Digital portfolio with Web and Mobile product lines, engineers and designers",
		Category:    "portfolio",
	},
	{
		ID:          "over-allocated",
		Name:        "Over-Allocated",
		Description: "Overlapping allocations push one resource past 100% in Q2",
		Category:    "resource",
	},
	{
		ID:          "project-rollout",
		Name:        "Project Rollout",
		Description: "Project with estimated dates and resources joining in waves",
		Category:    "project",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, "Invalid request body", err)
		return
	}
	if !knownScenario(req.ScenarioID) {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	if err := h.loadScenario(ctx, req.ScenarioID, h.today().Year()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) reset(ctx context.Context) error {
	resetter, ok := h.Store.(generic.Resetter)
	if !ok {
		return fmt.Errorf("store %T does not support reset", h.Store)
	}
	if err := resetter.Reset(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	return nil
}

func knownScenario(id string) bool {
	for _, s := range scenarios {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (h *Handler) loadScenario(ctx context.Context, id string, year int) error {
	s := &seeder{ctx: ctx, store: h.Store, year: year}
	switch id {
	case "single-engineer":
		loadSingleEngineerScenario(s)
	case "product-team":
		loadProductTeamScenario(s)
	case "over-allocated":
		loadOverAllocatedScenario(s)
	case "project-rollout":
		loadProjectRolloutScenario(s)
	default:
		return fmt.Errorf("unknown scenario %q", id)
	}
	return s.err
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadSingleEngineerScenario(s *seeder) {
	ada := s.resource(generic.Resource{
		Name:               "Ada Lovelace",
		Email:              "ada@example.com",
		Type:               "Employee",
		Role:               "Engineer",
		StrategicPortfolio: "Digital",
		ProductLine:        "Web",
		ManagerName:        "Grace Hopper",
		ManagerEmail:       "grace@example.com",
		YearlyCapacity:     2088,
		BlendedRate:        decimal.NewFromInt(95),
	})
	checkout := s.project(generic.Project{Name: "Checkout Revamp", StrategicPortfolio: "Digital", ProductLine: "Web"})
	search := s.project(generic.Project{Name: "Search Relevance", StrategicPortfolio: "Digital", ProductLine: "Web"})

	// 60% on checkout all year, 10 h/wk on search for the first half
	s.allocate(ada, checkout, s.day(time.January, 1), s.day(time.December, 31), generic.Float(60), nil)
	s.allocate(ada, search, s.day(time.January, 1), s.day(time.June, 30), nil, generic.Float(10))

	s.timeOff(ada, s.day(time.March, 10), s.day(time.March, 14), "Vacation")

	s.logHours(ada, checkout, s.day(time.January, 1), s.day(time.February, 28), 5)
	s.logHours(ada, search, s.day(time.January, 1), s.day(time.February, 28), 2.5)
}

func loadProductTeamScenario(s *seeder) {
	team := []generic.Resource{
		{Name: "Ada Lovelace", Role: "Engineer", ProductLine: "Web", YearlyCapacity: 2088, BlendedRate: decimal.NewFromInt(95)},
		{Name: "Alan Turing", Role: "Engineer", ProductLine: "Web", YearlyCapacity: 2088, BlendedRate: decimal.NewFromInt(90)},
		{Name: "Dieter Rams", Role: "Designer", ProductLine: "Web", YearlyCapacity: 1566, BlendedRate: decimal.NewFromInt(80)},
		{Name: "Katherine Johnson", Role: "Engineer", ProductLine: "Mobile", YearlyCapacity: 2088, BlendedRate: decimal.NewFromInt(100)},
		{Name: "Susan Kare", Role: "Designer", ProductLine: "Mobile", YearlyCapacity: 2088, BlendedRate: decimal.NewFromInt(85)},
	}
	ids := make([]generic.ResourceID, len(team))
	for i, r := range team {
		r.Type = "Employee"
		r.StrategicPortfolio = "Digital"
		r.ManagerName = "Grace Hopper"
		ids[i] = s.resource(r)
	}
	ada, alan, dieter, katherine, susan := ids[0], ids[1], ids[2], ids[3], ids[4]

	storefront := s.project(generic.Project{Name: "Storefront", StrategicPortfolio: "Digital", ProductLine: "Web"})
	app := s.project(generic.Project{Name: "Mobile App", StrategicPortfolio: "Digital", ProductLine: "Mobile"})
	design := s.project(generic.Project{Name: "Design System", StrategicPortfolio: "Digital"})

	yearStart, yearEnd := s.day(time.January, 1), s.day(time.December, 31)
	s.allocate(ada, storefront, yearStart, yearEnd, generic.Float(80), nil)
	s.allocate(alan, storefront, yearStart, s.day(time.June, 30), generic.Float(100), nil)
	s.allocate(alan, app, s.day(time.July, 1), yearEnd, generic.Float(50), nil)
	s.allocate(dieter, design, yearStart, yearEnd, nil, generic.Float(20))
	s.allocate(dieter, storefront, yearStart, yearEnd, nil, generic.Float(10))
	s.allocate(katherine, app, yearStart, yearEnd, generic.Float(90), nil)
	s.allocate(susan, app, yearStart, s.day(time.September, 30), generic.Float(60), nil)
	s.allocate(susan, design, yearStart, yearEnd, generic.Float(30), nil)

	s.timeOff(alan, s.day(time.August, 4), s.day(time.August, 15), "Vacation")
	s.timeOff(katherine, s.day(time.February, 17), s.day(time.February, 21), "Conference")

	janEnd := s.day(time.January, 31)
	s.logHours(ada, storefront, yearStart, janEnd, 6)
	s.logHours(alan, storefront, yearStart, janEnd, 8)
	s.logHours(katherine, app, yearStart, janEnd, 7)
	s.logHours(susan, app, yearStart, janEnd, 4)
}

func loadOverAllocatedScenario(s *seeder) {
	ops := s.resource(generic.Resource{
		Name:               "Linus Torvalds",
		Type:               "Contractor",
		Role:               "Engineer",
		StrategicPortfolio: "Operations",
		ProductLine:        "Platform",
		YearlyCapacity:     2088,
		BlendedRate:        decimal.NewFromInt(120),
	})
	migration := s.project(generic.Project{Name: "Cloud Migration", StrategicPortfolio: "Operations", ProductLine: "Platform"})
	oncall := s.project(generic.Project{Name: "On-Call Rotation", StrategicPortfolio: "Operations", ProductLine: "Platform"})

	s.allocate(ops, migration, s.day(time.January, 1), s.day(time.June, 30), generic.Float(80), nil)
	s.allocate(ops, oncall, s.day(time.April, 1), s.day(time.September, 30), generic.Float(50), nil)

	s.logHours(ops, migration, s.day(time.January, 1), s.day(time.March, 31), 6.5)
}

func loadProjectRolloutScenario(s *seeder) {
	start, end := s.day(time.February, 1), s.day(time.October, 31)
	rollout := s.project(generic.Project{
		Name:               "Payments Rollout",
		StrategicPortfolio: "Digital",
		ProductLine:        "Payments",
		StartDateEst:       &start,
		EndDateEst:         &end,
	})

	lead := s.resource(generic.Resource{Name: "Margaret Hamilton", Role: "Lead", StrategicPortfolio: "Digital", ProductLine: "Payments", YearlyCapacity: 2088, BlendedRate: decimal.NewFromInt(130)})
	dev := s.resource(generic.Resource{Name: "Ken Thompson", Role: "Engineer", StrategicPortfolio: "Digital", ProductLine: "Payments", YearlyCapacity: 2088, BlendedRate: decimal.NewFromInt(105)})
	qa := s.resource(generic.Resource{Name: "Barbara Liskov", Role: "QA", StrategicPortfolio: "Digital", ProductLine: "Payments", YearlyCapacity: 1566, BlendedRate: decimal.NewFromInt(75)})

	s.allocate(lead, rollout, start, end, generic.Float(50), nil)
	s.allocate(dev, rollout, s.day(time.March, 1), s.day(time.August, 31), generic.Float(100), nil)
	s.allocate(qa, rollout, s.day(time.June, 1), end, nil, generic.Float(24))

	s.timeOff(dev, s.day(time.July, 7), s.day(time.July, 18), "Vacation")

	s.logHours(lead, rollout, start, s.day(time.March, 31), 4)
	s.logHours(dev, rollout, s.day(time.March, 1), s.day(time.March, 31), 8)
}

// =============================================================================
// SEEDER
// =============================================================================

// seeder writes scenario records, keeping the first error and turning later
// calls into no-ops.
type seeder struct {
	ctx   context.Context
	store generic.Store
	year  int
	err   error
}

func (s *seeder) day(month time.Month, day int) generic.Date {
	return generic.NewDate(s.year, month, day)
}

func (s *seeder) resource(r generic.Resource) generic.ResourceID {
	if s.err != nil {
		return 0
	}
	if r.Email == "" {
		r.Email = strings.ToLower(strings.ReplaceAll(r.Name, " ", ".")) + "@example.com"
	}
	r.TimesheetName = r.Name
	saved, err := s.store.SaveResource(s.ctx, r)
	if err != nil {
		s.err = fmt.Errorf("save resource %q: %w", r.Name, err)
		return 0
	}
	return saved.ID
}

func (s *seeder) project(p generic.Project) generic.ProjectID {
	if s.err != nil {
		return 0
	}
	p.TimesheetName = p.Name
	saved, err := s.store.SaveProject(s.ctx, p)
	if err != nil {
		s.err = fmt.Errorf("save project %q: %w", p.Name, err)
		return 0
	}
	return saved.ID
}

func (s *seeder) allocate(rid generic.ResourceID, pid generic.ProjectID, start, end generic.Date, pct, hrsPerWeek *float64) {
	if s.err != nil {
		return
	}
	_, err := s.store.SaveAllocation(s.ctx, generic.Allocation{
		ResourceID: rid,
		ProjectID:  pid,
		Start:      start,
		End:        end,
		Pct:        pct,
		HrsPerWeek: hrsPerWeek,
	})
	if err != nil {
		s.err = fmt.Errorf("allocate resource %d to project %d: %w", rid, pid, err)
	}
}

func (s *seeder) timeOff(rid generic.ResourceID, start, end generic.Date, reason string) {
	if s.err != nil {
		return
	}
	_, err := s.store.SaveTimeOff(s.ctx, generic.TimeOff{ResourceID: rid, Start: start, End: end, Reason: reason})
	if err != nil {
		s.err = fmt.Errorf("time-off for resource %d: %w", rid, err)
	}
}

// logHours records the same hours on every workday of the range.
func (s *seeder) logHours(rid generic.ResourceID, pid generic.ProjectID, start, end generic.Date, hours float64) {
	for _, d := range (generic.Period{Start: start, End: end}).Workdays() {
		if s.err != nil {
			return
		}
		_, err := s.store.SaveTimesheetEntry(s.ctx, generic.TimesheetEntry{
			ResourceID: rid,
			ProjectID:  pid,
			Date:       d,
			Hours:      hours,
		})
		if err != nil {
			s.err = fmt.Errorf("timesheet for resource %d on %s: %w", rid, d, err)
		}
	}
}
