package persistence_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/storage/catalog"
	"github.com/kylycht/apex/storage/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var query = regexp.QuoteMeta("SELECT code, name, symbol")

func TestLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(query).WillReturnRows(
		sqlmock.NewRows([]string{"code", "name", "symbol"}).
			AddRow("usd", "US Dollar", "$").
			AddRow("CNY", "Yuan", "¥").
			AddRow("BTC", "Bitcoin", "₿").
			AddRow("USD", "dup", "$"),
	)

	got, err := persistence.New(db, catalog.New()).Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []model.CurrencyDescriptor{
		{Code: model.USD, Name: "US Dollar", Symbol: "$"},
		{Code: model.CNY, Name: "Yuan", Symbol: "¥"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_FallbackWhenIncomplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(query).WillReturnRows(
		sqlmock.NewRows([]string{"code", "name", "symbol"}).AddRow("EUR", "Euro", "€"),
	)

	got, err := persistence.New(db, catalog.New()).Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, model.Currencies, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

	got, err := persistence.New(db, catalog.New()).Load(t.Context())
	require.Error(t, err)
	assert.Nil(t, got)
}
