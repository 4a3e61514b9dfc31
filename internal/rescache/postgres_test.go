package rescache

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	selectQ := regexp.QuoteMeta("SELECT country FROM _geo_country_cache WHERE cell_key=$1")

	mock.ExpectQuery(selectQ).WithArgs("48.5,2.5").WillReturnRows(sqlmock.NewRows([]string{"country"}).AddRow("Francia"))
	mock.ExpectQuery(selectQ).WithArgs("10.0,10.0").WillReturnRows(sqlmock.NewRows([]string{"country"}))
	mock.ExpectQuery(selectQ).WithArgs("1.0,1.0").WillReturnError(errors.New("conn reset"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO _geo_country_cache(cell_key, country)")).
		WithArgs("10.0,10.0", "Unknown").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := NewPostgres(db)
	assert.Equal(t, "postgres", p.Backend())

	c, ok := p.Get(ctx, 48.5, 2.5)
	assert.True(t, ok)
	assert.Equal(t, "Francia", c)

	_, ok = p.Get(ctx, 10, 10)
	assert.False(t, ok)

	_, ok = p.Get(ctx, 1, 1)
	assert.False(t, ok, "driver errors read as a miss")

	require.NoError(t, p.Put(ctx, 10, 10, "Unknown"))
	require.NoError(t, mock.ExpectationsWereMet())
}
