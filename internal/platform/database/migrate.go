package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Migrate runs the <name>.<direction>.sql files in dir: "up" files in name
// order, "down" files in reverse. It returns the files it applied.
func Migrate(ctx context.Context, db *sql.DB, fs afero.Fs, dir, direction string) ([]string, error) {
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("invalid migration direction %q: must be up or down", direction)
	}

	files, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	suffix := "." + direction + ".sql"
	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), suffix) {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)
	if direction == "down" {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	applied := make([]string, 0, len(names))
	for _, name := range names {
		content, err := afero.ReadFile(fs, dir+"/"+name)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		log.Info().Str("file", name).Msg("applying migration")
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return applied, fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}
