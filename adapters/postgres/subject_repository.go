package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/core"
	"github.com/ddsjoberg/gt/ports"
)

// subjectRepository implements the SubjectRepository interface
type subjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *sqlx.DB) ports.SubjectRepository {
	return &subjectRepository{db: db}
}

// ListByStudy retrieves a study's eligible subjects in enrollment
// order. The eligibility filter lives here: the pipeline downstream
// never sees excluded records.
func (r *subjectRepository) ListByStudy(ctx context.Context, studyID core.StudyID) ([]cohort.SubjectRecord, error) {
	query := `SELECT
		id, arm, enrolled_at, COALESCE(observations, '{}'::jsonb) as observations
	FROM subjects
	WHERE study_id = $1 AND eligible = TRUE
	ORDER BY enrolled_at, id`

	rows, err := r.db.QueryContext(ctx, query, studyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var records []cohort.SubjectRecord
	for rows.Next() {
		var (
			id           string
			arm          string
			enrolledAt   sql.NullTime
			observations []byte
		)
		if err := rows.Scan(&id, &arm, &enrolledAt, &observations); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}

		values := make(map[core.VariableKey]cohort.Value)
		if err := json.Unmarshal(observations, &values); err != nil {
			return nil, fmt.Errorf("failed to unmarshal observations for subject %s: %w", id, err)
		}
		records = append(records, cohort.SubjectRecord{
			SubjectID:  core.SubjectID(id),
			Group:      arm,
			EnrolledAt: core.NewTimestamp(enrolledAt.Time),
			Values:     values,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subjects: %w", err)
	}
	if len(records) == 0 {
		return nil, core.ErrStudyNotFound
	}
	return records, nil
}

// ListVariables retrieves the study's variable descriptors in
// declaration order.
func (r *subjectRepository) ListVariables(ctx context.Context, studyID core.StudyID) ([]cohort.Variable, error) {
	query := `SELECT
		key, label, COALESCE(unit, '') as unit, var_type
	FROM study_variables
	WHERE study_id = $1
	ORDER BY position`

	var variables []cohort.Variable
	rows, err := r.db.QueryContext(ctx, query, studyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrStudyNotFound
		}
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v cohort.Variable
		var varType string
		if err := rows.Scan(&v.Key, &v.Label, &v.Unit, &varType); err != nil {
			return nil, fmt.Errorf("failed to scan variable: %w", err)
		}
		v.Type = cohort.VarType(varType)
		variables = append(variables, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate variables: %w", err)
	}
	return variables, nil
}
