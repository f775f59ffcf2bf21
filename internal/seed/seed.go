package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursehub/internal/app/models"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
)

//go:embed courses.json
var defaultCourses []byte

// DefaultCourses returns the built-in catalogue
func DefaultCourses() ([]appModels.Course, error) {
	return parse(defaultCourses, "embedded catalogue")
}

// LoadCourses reads a catalogue file, or the built-in one when path is empty
func LoadCourses(path string) ([]appModels.Course, error) {
	if path == "" {
		return DefaultCourses()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) ([]appModels.Course, error) {
	var courses []appModels.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	for i, c := range courses {
		if err := middleware.Validate(c); err != nil {
			return nil, fmt.Errorf("%s: course #%d: %w", source, i, err)
		}
	}
	return courses, nil
}

// CreateDefaultData fills an empty catalogue from the seed source
func CreateDefaultData(ctx context.Context, catalog appServices.CatalogService, seedFile string, lgr zerolog.Logger) error {
	if catalog.Count() > 0 {
		lgr.Info().Int("courses", catalog.Count()).Msg("Course catalog already populated, skipping seed")
		return nil
	}

	courses, err := LoadCourses(seedFile)
	if err != nil {
		return err
	}

	loaded, err := catalog.Seed(ctx, courses)
	if err != nil {
		return fmt.Errorf("failed to seed course catalog: %w", err)
	}

	source := seedFile
	if source == "" {
		source = "embedded"
	}
	lgr.Info().Int("courses", loaded).Str("source", source).Msg("Course catalog seeded")
	return nil
}
