// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metro

import (
	"context"
	"strings"
	"testing"

	"metroline/cli/internal/dbconn"
	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/table"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stationColumns = []string{"station_id", "name", "tariff_zone", "line_order", "is_active"}
	routeColumns   = []string{"route_id", "start_station_id", "end_station_id", "route_name", "is_active"}
)

const stationNameSQL = `SELECT "name" FROM "public_station" WHERE "station_id" = $1`

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	s, err := NewStore(dbconn.NewWithDB(db, "public_", nil), nil)
	require.NoError(t, err)
	return s, mock
}

func TestStore_CreateSQL(t *testing.T) {
	ctx := context.Background()
	s, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE "public_station" (` +
		`"station_id" BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY, ` +
		`"name" VARCHAR(200) NOT NULL, ` +
		`"tariff_zone" INTEGER NOT NULL, ` +
		`"line_order" INTEGER NOT NULL, ` +
		`"is_active" BOOLEAN NOT NULL DEFAULT TRUE, ` +
		`CONSTRAINT chk_station_tariff_zone CHECK (tariff_zone >= 0), ` +
		`CONSTRAINT chk_station_line_order CHECK (line_order > 0), ` +
		`CONSTRAINT uq_station_name UNIQUE (name), ` +
		`CONSTRAINT uq_station_line_order UNIQUE (line_order))`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE "public_route" (` +
		`"route_id" BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY, ` +
		`"start_station_id" BIGINT NOT NULL, ` +
		`"end_station_id" BIGINT NOT NULL, ` +
		`"route_name" VARCHAR(200), ` +
		`"is_active" BOOLEAN NOT NULL DEFAULT TRUE, ` +
		`CONSTRAINT chk_route_start_end_not_same CHECK (start_station_id <> end_station_id), ` +
		`CONSTRAINT uq_route_start_end UNIQUE (start_station_id, end_station_id))`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	for _, tbl := range s.CreationOrder() {
		require.NoError(t, tbl.Create(ctx))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListStations(t *testing.T) {
	ctx := context.Background()
	s, mock := newStore(t)

	mock.ExpectQuery(`SELECT * FROM "public_station" ORDER BY "station_id"`).
		WillReturnRows(sqlmock.NewRows(stationColumns).
			AddRow(int64(1), "Central", int64(1), int64(1), true).
			AddRow(int64(2), "Harbour", int64(2), int64(2), false))

	got, err := s.ListStations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Station{
		{ID: 1, Name: "Central", TariffZone: 1, LineOrder: 1, Active: true},
		{ID: 2, Name: "Harbour", TariffZone: 2, LineOrder: 2, Active: false},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_StationAt(t *testing.T) {
	ctx := context.Background()
	s, mock := newStore(t)

	mock.ExpectQuery(`SELECT * FROM "public_station" ORDER BY "station_id" LIMIT 1 OFFSET $1`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows(stationColumns).AddRow(int64(7), "Depot", int64(3), int64(3), true))

	st, found, err := s.StationAt(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Depot", st.Name)

	_, found, err = s.StationAt(ctx, 0)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AddAndUpdateStation(t *testing.T) {
	ctx := context.Background()
	s, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "public_station" ("name", "tariff_zone", "line_order", "is_active") VALUES ($1, $2, $3, $4)`).
		WithArgs("Central", 1, 1, true).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "public_station" SET "name" = $1, "tariff_zone" = $2, "line_order" = $3, "is_active" = $4 WHERE "station_id" = $5`).
		WithArgs("Central Square", 2, 1, false, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.AddStation(ctx, StationInput{Name: "Central", TariffZone: 1, LineOrder: 1, Active: true}))
	require.NoError(t, s.UpdateStation(ctx, 1, StationInput{Name: "Central Square", TariffZone: 2, LineOrder: 1}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AddRoute(t *testing.T) {
	ctx := context.Background()
	insertRoute := `INSERT INTO "public_route" ("start_station_id", "end_station_id", "route_name", "is_active") VALUES ($1, $2, $3, $4)`
	nameRows := func(name string) *sqlmock.Rows { return sqlmock.NewRows([]string{"name"}).AddRow(name) }

	tests := []struct {
		name      string
		in        RouteInput
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   string
	}{
		{
			name:    "same start and end",
			in:      RouteInput{StartStationID: 1, EndStationID: 1},
			wantErr: "must differ",
		},
		{
			name: "missing start",
			in:   RouteInput{StartStationID: 1, EndStationID: 2},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(stationNameSQL).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"name"}))
			},
			wantErr: "start station not found",
		},
		{
			name: "missing end",
			in:   RouteInput{StartStationID: 1, EndStationID: 2},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(stationNameSQL).WithArgs(1).WillReturnRows(nameRows("Central"))
				mock.ExpectQuery(stationNameSQL).WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"name"}))
			},
			wantErr: "end station not found",
		},
		{
			name: "unnamed route stores NULL",
			in:   RouteInput{StartStationID: 1, EndStationID: 2, Active: true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(stationNameSQL).WithArgs(1).WillReturnRows(nameRows("Central"))
				mock.ExpectQuery(stationNameSQL).WithArgs(2).WillReturnRows(nameRows("Harbour"))
				mock.ExpectBegin()
				mock.ExpectExec(insertRoute).WithArgs(1, 2, nil, true).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "named route",
			in:   RouteInput{StartStationID: 1, EndStationID: 2, Name: "Express", Active: false},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(stationNameSQL).WithArgs(1).WillReturnRows(nameRows("Central"))
				mock.ExpectQuery(stationNameSQL).WithArgs(2).WillReturnRows(nameRows("Harbour"))
				mock.ExpectBegin()
				mock.ExpectExec(insertRoute).WithArgs(1, 2, "Express", false).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			err := s.AddRoute(ctx, tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, apperr.Validation, apperr.KindOf(err))
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_RoutesFrom(t *testing.T) {
	ctx := context.Background()
	s, mock := newStore(t)

	mock.ExpectQuery(`SELECT * FROM "public_route" WHERE "start_station_id" = $1 ORDER BY "route_id"`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(routeColumns).
			AddRow(int64(10), int64(1), int64(2), nil, true).
			AddRow(int64(11), int64(1), int64(3), "Night", false))

	got, err := s.RoutesFrom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []Route{
		{ID: 10, StartStationID: 1, EndStationID: 2, Active: true},
		{ID: 11, StartStationID: 1, EndStationID: 3, Name: "Night"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeStation_Errors(t *testing.T) {
	_, err := DecodeStation(table.Row{int64(1), "x"})
	assert.ErrorContains(t, err, "has 2 columns")

	_, err = DecodeStation(table.Row{int64(1), 42, int64(1), int64(1), true})
	assert.ErrorContains(t, err, "name: unexpected type int")
}

func TestCatalogCoversEveryNamedConstraint(t *testing.T) {
	for _, constraints := range [][]string{StationSchema.Constraints, RouteSchema.Constraints} {
		for _, c := range constraints {
			fields := strings.Fields(c)
			require.GreaterOrEqual(t, len(fields), 2)
			name := fields[1]
			_, unique := Catalog.Unique[name]
			_, check := Catalog.Check[name]
			assert.True(t, unique || check, "no message for %s", name)
		}
	}
}
