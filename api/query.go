/*
query.go - Query-string parsing and request validation

PURPOSE:
  Turns URL parameters and JSON bodies into engine inputs. Every failure is
  returned as a *generic.FieldError so the handlers map it to 400.

DEFAULTS:
  start_date  January 1 of the current year
  end_date    December 31 of the current year
  interval    Monthly when the parameter is absent; an explicitly empty
              "interval=" selects change-point blocks

SEE ALSO:
  - dto.go: Request types and their validate tags
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
)

var validate = newValidator()

// newValidator reports fields by their wire name (json or query tag).
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// check runs the validator and converts its first failure to a FieldError.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &generic.FieldError{Field: fe.Field(), Message: ruleMessage(fe)}
	}
	return err
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be an email address"
	case "numeric", "number":
		return "must be a number"
	case "gte", "gt":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q (%s)", fe.Tag(), fe.Param())
	}
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &generic.FieldError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return check(dst)
}

// =============================================================================
// RANGE PARAMETERS
// =============================================================================

type rangeParams struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Interval  string `query:"interval" validate:"omitempty,oneof=Weekly Monthly"`
}

// rangeQuery is a parsed date range and interval.
type rangeQuery struct {
	Period   generic.Period
	Interval capacity.Interval
	// Explicit is false when neither start_date nor end_date was sent.
	Explicit bool
}

// parseRange reads start_date, end_date and interval, applying defaults
// relative to today.
func parseRange(q url.Values, today generic.Date) (rangeQuery, error) {
	params := rangeParams{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Interval:  q.Get("interval"),
	}
	if err := check(params); err != nil {
		return rangeQuery{}, err
	}

	out := rangeQuery{
		Period:   generic.YearPeriod(today.Year()),
		Interval: capacity.IntervalMonthly,
		Explicit: params.StartDate != "" || params.EndDate != "",
	}
	if params.StartDate != "" {
		out.Period.Start = generic.MustParseDate(params.StartDate)
	}
	if params.EndDate != "" {
		out.Period.End = generic.MustParseDate(params.EndDate)
	}
	if q.Has("interval") {
		iv, err := capacity.ParseInterval(params.Interval)
		if err != nil {
			return rangeQuery{}, err
		}
		out.Interval = iv
	}
	if err := out.Period.Validate(); err != nil {
		return rangeQuery{}, err
	}
	return out, nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// parseID parses a positive integer identifier.
func parseID(field, raw string) (int64, error) {
	if err := validate.Var(raw, "required,number"); err != nil {
		return 0, &generic.FieldError{Field: field, Message: "must be a positive integer"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &generic.FieldError{Field: field, Message: "must be a positive integer"}
	}
	return id, nil
}

// optionalID parses an identifier that may be absent (0).
func optionalID(field, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return parseID(field, raw)
}

func pathID(r *http.Request, name string) (int64, error) {
	return parseID(name, chi.URLParam(r, name))
}

// parseProjectIDs reads project_ids as repeated values, comma-separated
// values, or both.
func parseProjectIDs(q url.Values) ([]generic.ProjectID, error) {
	var ids []generic.ProjectID
	for _, raw := range q["project_ids"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseID("project_ids", part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, generic.ProjectID(id))
		}
	}
	if len(ids) == 0 {
		return nil, &generic.FieldError{Field: "project_ids", Message: "is required"}
	}
	return ids, nil
}
