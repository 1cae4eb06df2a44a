package ports

import (
	"context"

	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/core"
)

// SubjectRepository defines the interface for subject record storage.
// Implementations return the already-filtered record set the pipeline
// consumes: eligibility filtering happens behind this boundary.
type SubjectRepository interface {
	// ListByStudy returns every eligible subject of a study, in
	// enrollment order.
	ListByStudy(ctx context.Context, studyID core.StudyID) ([]cohort.SubjectRecord, error)

	// ListVariables returns the study's variable descriptors in
	// declaration order.
	ListVariables(ctx context.Context, studyID core.StudyID) ([]cohort.Variable, error)
}
