// Package rules turns trend evaluations into alerts using CEL expressions
// loaded from YAML.
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
)

// DefaultCooldown applies to rules that do not set one.
const DefaultCooldown = 6 * time.Hour

// Evaluation is the trend state of one user's data type after an ingestion.
type Evaluation struct {
	UserID     string
	DataType   model.MonitoringDataType
	Trend      trend.Label
	Windows    trend.Windows
	Average    int
	DataPoints int
}

func (ev Evaluation) activation() map[string]any {
	return map[string]any{
		"trend":          string(ev.Trend),
		"average":        int64(ev.Average),
		"recent_average": ev.Windows.RecentAverage,
		"older_average":  ev.Windows.OlderAverage,
		"data_points":    int64(ev.DataPoints),
		"data_type":      string(ev.DataType),
		"user_id":        ev.UserID,
	}
}

// NewEnv declares the variables rule expressions may use.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("trend", cel.StringType),
		cel.Variable("average", cel.IntType),
		cel.Variable("recent_average", cel.DoubleType),
		cel.Variable("older_average", cel.DoubleType),
		cel.Variable("data_points", cel.IntType),
		cel.Variable("data_type", cel.StringType),
		cel.Variable("user_id", cel.StringType),
	)
}

// Rule raises an alert when its When expression holds.
type Rule struct {
	Name        string              `yaml:"name"`
	When        string              `yaml:"when"`
	AlertType   model.AlertType     `yaml:"alert_type"`
	Severity    model.AlertSeverity `yaml:"severity"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Cooldown    time.Duration       `yaml:"cooldown"`

	program cel.Program
}

// Init validates the rule and compiles When with env.
func (r *Rule) Init(env *cel.Env) error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	case strings.TrimSpace(r.When) == "":
		return fmt.Errorf("%w: %s: missing when", ErrInvalidRule, r.Name)
	case !r.AlertType.Valid():
		return fmt.Errorf("%w: %s: alert_type %q", ErrInvalidRule, r.Name, r.AlertType)
	case !r.Severity.Valid():
		return fmt.Errorf("%w: %s: severity %q", ErrInvalidRule, r.Name, r.Severity)
	case r.Title == "":
		return fmt.Errorf("%w: %s: missing title", ErrInvalidRule, r.Name)
	case r.Cooldown < 0:
		return fmt.Errorf("%w: %s: negative cooldown", ErrInvalidRule, r.Name)
	}
	if r.Cooldown == 0 {
		r.Cooldown = DefaultCooldown
	}

	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return fmt.Errorf("%w: %s: %w", ErrCompile, r.Name, iss.Err())
	}
	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return fmt.Errorf("%w: %s: %w", ErrCompile, r.Name, iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("%w: %s: expression must be boolean", ErrCompile, r.Name)
	}
	prg, err := env.Program(checked)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCompile, r.Name, err)
	}
	r.program = prg
	return nil
}

// Match reports whether the rule fires for ev. Evaluation errors count as no match.
func (r *Rule) Match(ev Evaluation) (bool, error) {
	out, _, err := r.program.Eval(ev.activation())
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

// Alert renders the alert the rule raises for ev.
func (r *Rule) Alert(ev Evaluation) model.Alert {
	rep := strings.NewReplacer(
		"{{data_type}}", strings.ReplaceAll(string(ev.DataType), "_", " "),
		"{{trend}}", string(ev.Trend),
		"{{average}}", strconv.Itoa(ev.Average),
		"{{user_id}}", ev.UserID,
	)
	a := model.Alert{
		UserID:    ev.UserID,
		AlertType: r.AlertType,
		Severity:  r.Severity,
		Title:     rep.Replace(r.Title),
	}
	if r.Description != "" {
		d := rep.Replace(r.Description)
		a.Description = &d
	}
	return a
}
