package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/ddsjoberg/gt/adapters/excel"
	"github.com/ddsjoberg/gt/adapters/htmldoc"
	"github.com/ddsjoberg/gt/adapters/postgres"
	"github.com/ddsjoberg/gt/adapters/textdoc"
	"github.com/ddsjoberg/gt/app"
	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/core"
	"github.com/ddsjoberg/gt/domain/table"
	"github.com/ddsjoberg/gt/internal/config"
	"github.com/ddsjoberg/gt/internal/testkit"
	"github.com/ddsjoberg/gt/ports"
	"github.com/ddsjoberg/gt/ui"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTML preview server instead of writing files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file loaded: %v", err)
	}
	cfg := config.Load()

	markStyle := table.MarksNumeric
	if cfg.Output.AlphabeticMarks {
		markStyle = table.MarksAlphabetic
	}

	if *serve {
		previewApp := ui.NewApp(ui.Config{MarkStyle: markStyle})
		if err := previewApp.Run(cfg.Server.Port); err != nil {
			log.Fatalf("[main] preview server failed: %v", err)
		}
		return
	}

	if err := run(cfg, markStyle); err != nil {
		log.Fatalf("[main] %v", err)
	}
}

func run(cfg *config.Config, markStyle table.MarkStyle) error {
	ctx := context.Background()

	records, variables, err := loadCohort(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load cohort: %w", err)
	}
	log.Printf("[main] loaded %d subjects, %d variables", len(records), len(variables))

	tables := app.NewTableService(app.NewAggregator(4))

	demographics, err := tables.BuildDemographicTable(ctx, app.DemographicRequest{
		Records:   records,
		Variables: variables,
		Spanner:   "Treatment Arm",
		MarkStyle: markStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to build demographics table: %w", err)
	}

	responseVar, subgroupVar := responseVariables(variables)
	var response *table.Model
	if responseVar != nil {
		response, err = tables.BuildResponseTable(ctx, app.ResponseRequest{
			Records:     records,
			ResponseVar: *responseVar,
			SubgroupVar: subgroupVar,
			MarkStyle:   markStyle,
		})
		if err != nil {
			return fmt.Errorf("failed to build response table: %w", err)
		}
	}

	writers := map[string]ports.TableWriter{
		"xlsx": excel.NewWriter(),
		"html": htmldoc.NewWriter(),
		"txt":  textdoc.NewWriter(),
	}
	if err := writeAll(writers, demographics.Render(), cfg.Output.Dir, "demographics"); err != nil {
		return err
	}
	if response != nil {
		if err := writeAll(writers, response.Render(), cfg.Output.Dir, "response"); err != nil {
			return err
		}
	}
	return nil
}

// loadCohort reads subjects from Postgres when DATABASE_URL is set and
// falls back to the synthetic trial cohort otherwise.
func loadCohort(ctx context.Context, cfg *config.Config) ([]cohort.SubjectRecord, []cohort.Variable, error) {
	if cfg.Database.URL == "" {
		log.Printf("[main] DATABASE_URL not set, using synthetic cohort")
		kit := testkit.NewTrialGenerator(testkit.DefaultTrialConfig())
		return kit.Generate(), kit.Variables(), nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewSubjectRepository(db)
	studyID := core.StudyID(cfg.Database.StudyID)
	records, err := repo.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, nil, err
	}
	variables, err := repo.ListVariables(ctx, studyID)
	if err != nil {
		return nil, nil, err
	}
	return records, variables, nil
}

// responseVariables finds a binary response variable and a
// stratification variable by convention: a categorical named
// "response", stratified by "stage" when present.
func responseVariables(variables []cohort.Variable) (*cohort.Variable, *cohort.Variable) {
	var responseVar, subgroupVar *cohort.Variable
	for i := range variables {
		switch variables[i].Key {
		case "response":
			responseVar = &variables[i]
		case "stage":
			subgroupVar = &variables[i]
		}
	}
	return responseVar, subgroupVar
}

func writeAll(writers map[string]ports.TableWriter, grid *table.Grid, dir, name string) error {
	for ext, w := range writers {
		path := filepath.Join(dir, name+"."+ext)
		if err := w.WriteFile(grid, path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Printf("[main] wrote %s", path)
	}
	return nil
}
