package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const itemColumns = "path, item_type, status, source_path, destination_path, tmdb_id, title, year, poster_path, overview, season, episode, quality, source_tag, codec, library_id, reason, updated_at"

const jobColumns = "id, status, total_files, processed_files, movies, tv_episodes, uncategorized, error_count, errors_json, error_message, started_at, finished_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		path        string
		itemType    string
		status      string
		sourcePath  sql.NullString
		destination sql.NullString
		tmdbID      sql.NullInt64
		title       sql.NullString
		year        sql.NullInt64
		posterPath  sql.NullString
		overview    sql.NullString
		season      sql.NullInt64
		episode     sql.NullInt64
		quality     sql.NullString
		sourceTag   sql.NullString
		codec       sql.NullString
		libraryID   sql.NullString
		reason      sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&path,
		&itemType,
		&status,
		&sourcePath,
		&destination,
		&tmdbID,
		&title,
		&year,
		&posterPath,
		&overview,
		&season,
		&episode,
		&quality,
		&sourceTag,
		&codec,
		&libraryID,
		&reason,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		Path:            path,
		Type:            ItemType(itemType),
		Status:          ItemStatus(status),
		SourcePath:      sourcePath.String,
		DestinationPath: destination.String,
		Identification: Identification{
			TMDBID:     tmdbID.Int64,
			Title:      title.String,
			Year:       int(year.Int64),
			PosterPath: posterPath.String,
			Overview:   overview.String,
			Season:     int(season.Int64),
			Episode:    int(episode.Int64),
		},
		Quality:   quality.String,
		Source:    sourceTag.String,
		Codec:     codec.String,
		LibraryID: libraryID.String,
		Reason:    reason.String,
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*ScanJob, error) {
	var (
		id            string
		status        string
		totalFiles    int
		processed     int
		movies        int
		tvEpisodes    int
		uncategorized int
		errorCount    int
		errorsJSON    sql.NullString
		errorMessage  sql.NullString
		startedRaw    sql.NullString
		finishedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&status,
		&totalFiles,
		&processed,
		&movies,
		&tvEpisodes,
		&uncategorized,
		&errorCount,
		&errorsJSON,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	job := &ScanJob{
		ID:             id,
		Status:         JobStatus(status),
		TotalFiles:     totalFiles,
		ProcessedFiles: processed,
		Stats: JobStats{
			Movies:        movies,
			TVEpisodes:    tvEpisodes,
			Uncategorized: uncategorized,
			Errors:        errorCount,
		},
		ErrorMessage: errorMessage.String,
	}
	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &job.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal job errors: %w", err)
		}
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		job.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			job.FinishedAt = &finished
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
