package utils

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tiffycooks/models"
)

const membershipQuery = `SELECT teams\.\*, team_members\.role FROM "team_members" JOIN teams ON teams\.id = team_members\.team_id WHERE team_members\.user_id = \$1`

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func membershipRows(rows ...[]interface{}) *sqlmock.Rows {
	out := sqlmock.NewRows([]string{"id", "name", "slug", "owner_id", "role"})
	for _, r := range rows {
		out.AddRow(r[0], r[1], r[2], r[3], r[4])
	}
	return out
}

func TestFindUserTeams(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(membershipQuery).
		WithArgs("user-1").
		WillReturnRows(membershipRows(
			[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-1", models.RoleOwner},
			[]interface{}{"team-2", "Bakery", "bakery", "user-9", models.RoleMember},
		))

	teams, err := FindUserTeams(db, "user-1")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "team-1", teams[0].ID)
	assert.Equal(t, models.RoleOwner, teams[0].Role)
	assert.Equal(t, models.RoleMember, teams[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireOwner(t *testing.T) {
	t.Run("owner passes", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-1", models.RoleOwner},
			))

		team, err := RequireOwner(db, "user-1", "team-1")
		require.NoError(t, err)
		assert.Equal(t, "Test Kitchen", team.Name)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-9", models.RoleMember},
			))

		_, err := RequireOwner(db, "user-1", "team-1")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("absent membership reads as not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-2", "Bakery", "bakery", "user-1", models.RoleOwner},
			))

		_, err := RequireOwner(db, "user-1", "team-1")
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})
}

func TestRequireCreatorOrAbove(t *testing.T) {
	t.Run("creator passes", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-9", models.RoleCreator},
			))

		team, err := RequireCreatorOrAbove(db, "user-1", "team-1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleCreator, team.Role)
	})

	t.Run("admin passes", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-9", models.RoleAdmin},
			))

		_, err := RequireCreatorOrAbove(db, "user-1", "team-1")
		assert.NoError(t, err)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-9", models.RoleMember},
			))

		_, err := RequireCreatorOrAbove(db, "user-1", "team-1")
		assert.ErrorIs(t, err, ErrNotCreator)
	})
}

func TestCanModerate(t *testing.T) {
	t.Run("admin can moderate", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-9", models.RoleAdmin},
			))

		assert.True(t, CanModerate(db, "user-1", "team-1"))
	})

	t.Run("member cannot moderate", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRows(
				[]interface{}{"team-1", "Test Kitchen", "test-kitchen", "user-9", models.RoleMember},
			))

		assert.False(t, CanModerate(db, "user-1", "team-1"))
	})

	t.Run("lookup failure reads as no", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnError(errors.New("connection reset"))

		assert.False(t, CanModerate(db, "user-1", "team-1"))
	})
}
