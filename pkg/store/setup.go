package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Migrator applies the schema and reports what is still missing.
type Migrator interface {
	Migrate(ctx context.Context) error
	MissingTables(ctx context.Context) ([]string, error)
}

type SetupReport struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Missing      []string `json:"missing,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
}

// Setup checks that the tables and the storage bucket exist. Running it again
// changes nothing once everything is in place.
type Setup struct {
	db      Migrator
	objects ObjectStore
}

func NewSetup(db Migrator, objects ObjectStore) *Setup {
	return &Setup{db: db, objects: objects}
}

func (s *Setup) Check(ctx context.Context) *SetupReport {
	report := &SetupReport{}

	if s.db == nil {
		report.Missing = append(report.Missing, "database")
		report.Instructions = append(report.Instructions,
			"Set DATABASE_URL to the Postgres connection string of your Supabase project and restart the server.")
	} else {
		if err := s.db.Migrate(ctx); err != nil {
			log.Warn("applying migrations failed", "err", err)
			report.Instructions = append(report.Instructions,
				fmt.Sprintf("Automatic migration failed (%v). Run pkg/store/migrations/1_comics.sql in the Supabase SQL editor.", err))
		}
		missing, err := s.db.MissingTables(ctx)
		if err != nil {
			log.Warn("checking tables failed", "err", err)
			report.Missing = append(report.Missing, Tables...)
		} else {
			report.Missing = append(report.Missing, missing...)
		}
		if len(report.Missing) > 0 {
			report.Instructions = append(report.Instructions,
				"Open Supabase Dashboard > SQL Editor.",
				"Run pkg/store/migrations/1_comics.sql to create the comics and comic_panels tables.",
				"Call POST /db/init again to verify.")
		}
	}

	if s.objects == nil {
		report.Missing = append(report.Missing, "storage")
		report.Instructions = append(report.Instructions,
			"Set SUPABASE_URL and SUPABASE_KEY so panel images can be uploaded.")
	} else {
		ok, err := s.objects.BucketExists(ctx)
		if err != nil {
			log.Warn("checking storage bucket failed", "err", err)
		}
		if !ok {
			report.Missing = append(report.Missing, "bucket:"+s.objects.Bucket())
			report.Instructions = append(report.Instructions,
				fmt.Sprintf("Create a public bucket named %q in Supabase Dashboard > Storage so panels get public URLs.", s.objects.Bucket()))
		}
	}

	report.Success = len(report.Missing) == 0
	if report.Success {
		report.Message = "database and storage are ready"
	} else {
		report.Message = "setup incomplete, follow the instructions"
	}
	return report
}
