package library

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"cloudsync/music"
)

// trackRow is one library entry joined with its artist credit.
type trackRow struct {
	bun.BaseModel `bun:"table:music_track,alias:t"`

	Suffix string `bun:"suffix"`
	Artist string `bun:"artist_name"`
}

// DatabaseChecker answers existence checks from a relational track index.
type DatabaseChecker struct {
	db        *bun.DB
	undesired music.Format
	logger    *zap.Logger
}

// NewDatabaseChecker opens a PostgreSQL-backed checker. The connection is
// lazy; a down database surfaces on the first check and fails open.
func NewDatabaseChecker(dsn string, undesired music.Format, logger *zap.Logger) *DatabaseChecker {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(5)
	sqldb.SetMaxIdleConns(2)
	sqldb.SetConnMaxLifetime(5 * time.Minute)

	return &DatabaseChecker{
		db:        bun.NewDB(sqldb, pgdialect.New()),
		undesired: undesired,
		logger:    logger,
	}
}

func (d *DatabaseChecker) Name() string {
	return "database"
}

// Close releases the connection pool.
func (d *DatabaseChecker) Close() error {
	return d.db.Close()
}

// Check matches title exactly and any of the artists by credit. All
// matching rows are scanned so an undesired-format copy does not mask a
// better one; query failures report the track as missing.
func (d *DatabaseChecker) Check(ctx context.Context, title string, artists []string, album string) music.ExistenceRecord {
	if title == "" || len(artists) == 0 {
		return music.ExistenceRecord{}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []trackRow
	err := d.db.NewSelect().
		Model(&rows).
		Column("t.suffix").
		ColumnExpr("a.name AS artist_name").
		Join("INNER JOIN music_artist AS a ON t.artist_id = a.id").
		Where("t.name = ?", title).
		Where("a.name IN (?)", bun.In(artists)).
		Scan(queryCtx)
	if err != nil {
		d.logger.Warn("database check failed, treating track as missing",
			zap.String("title", title),
			zap.Error(err))
		return music.ExistenceRecord{}
	}

	var undesired bool
	for _, row := range rows {
		format := music.FormatFromSuffix(row.Suffix)
		if format == d.undesired {
			undesired = true
			continue
		}
		return music.ExistenceRecord{
			Exists:  true,
			Format:  format,
			Artists: row.Artist,
		}
	}
	return music.ExistenceRecord{Undesired: undesired}
}
