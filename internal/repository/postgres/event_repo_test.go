package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventsquare/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func eventRow(now time.Time) *sqlmock.Rows {
	published := now.Add(-24 * time.Hour)
	return sqlmock.NewRows([]string{
		"id", "name", "description", "place", "hidden", "published_at",
		"start_time", "end_time", "attendance_limit", "organizer_id",
		"created_at", "updated_at",
	}).AddRow("ev-1", "Open Campus", "Campus tour", "Main Hall", false, published,
		now.Add(24*time.Hour), now.Add(26*time.Hour), 30, "org-1", now, now)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	published := now.Add(-time.Hour)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:            "Open Campus",
				Description:     "Campus tour",
				Place:           "Main Hall",
				PublishedAt:     &published,
				StartTime:       now.Add(24 * time.Hour),
				EndTime:         now.Add(26 * time.Hour),
				AttendanceLimit: 30,
				OrganizerID:     "org-1",
				CreatedAt:       now,
				UpdatedAt:       now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, description, place, hidden, published_at, start_time, end_time, attendance_limit, organizer_id, created_at, updated_at\)`).
					WithArgs("Open Campus", "Campus tour", "Main Hall", false,
						sql.NullTime{Time: published, Valid: true},
						now.Add(24*time.Hour), now.Add(26*time.Hour), 30, "org-1", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				Name:            "Open Campus",
				StartTime:       now.Add(24 * time.Hour),
				EndTime:         now.Add(26 * time.Hour),
				AttendanceLimit: 30,
				OrganizerID:     "org-1",
				CreatedAt:       now,
				UpdatedAt:       now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(eventRow(now))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, "ev-1")
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, "ev-1", got.ID)
			require.NotNil(t, got.PublishedAt)
			require.Equal(t, 30, got.AttendanceLimit)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_LockByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1 FOR UPDATE`).
		WithArgs("ev-1").
		WillReturnRows(eventRow(now))

	repo := NewEventRepository(db)
	got, err := repo.LockByID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, "ev-1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE events`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEventRepository(db)
	err = repo.Update(ctx, &domain.Event{
		ID:              "missing",
		Name:            "Renamed",
		StartTime:       now.Add(24 * time.Hour),
		EndTime:         now.Add(26 * time.Hour),
		AttendanceLimit: 10,
		UpdatedAt:       now,
	})
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListPromotable(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM events\s+WHERE start_time > \$1`).
		WithArgs(now).
		WillReturnRows(eventRow(now))

	repo := NewEventRepository(db)
	got, err := repo.ListPromotable(ctx, nil, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ev-1", got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	hidden := false

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE \(\$1::boolean IS NULL OR hidden = \$1\)`).
		WithArgs(sql.NullBool{Bool: false, Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`FROM events\s+WHERE \(\$1::boolean IS NULL OR hidden = \$1\)\s+ORDER BY created_at DESC`).
		WithArgs(sql.NullBool{Bool: false, Valid: true}, 20, 0).
		WillReturnRows(eventRow(now))

	repo := NewEventRepository(db)
	got, total, err := repo.List(ctx, &hidden, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListPublic(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM events\s+WHERE hidden = false\s+AND published_at IS NOT NULL AND published_at <= \$1\s+AND end_time > \$1`).
		WithArgs(now).
		WillReturnRows(eventRow(now))

	repo := NewEventRepository(db)
	got, err := repo.ListPublic(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
