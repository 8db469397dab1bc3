package index

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/wtu/errors"
	wtutesting "github.com/teranos/wtu/internal/testing"
)

func TestImportAndQuerySQLite(t *testing.T) {
	db := wtutesting.CreateMigratedTestDB(t)
	ctx := context.Background()

	stats, err := ImportMentions(ctx, db, writeFixture(t, "mentions.tsv", mentionFixture), '\t', nil)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Rows: 4, Skipped: 2}, stats)

	props := "dbr:Paris\tdbo:populationTotal\txsd:integer\t2240621\n" +
		"dbr:Paris\tdbo:areaTotal\tdt:squareKilometre\t105.4\n"
	_, err = ImportProperties(ctx, db, writeFixture(t, "props.tsv", props), '\t', nil)
	require.NoError(t, err)

	_, err = ImportClasses(ctx, db, writeFixture(t, "classes.tsv", "City\tdbo:City\nCITY\tdbo:Town\n"), '\t', nil)
	require.NoError(t, err)

	t.Run("mentions sum repeated pairs", func(t *testing.T) {
		ix, err := NewSQLiteMentionIndex(db)
		require.NoError(t, err)

		got, err := ix.Lookup("paris")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, Candidate{EntityURI: "dbr:Paris", Frequency: 120, Mention: "paris", Similarity: 1}, got[0])
		assert.Equal(t, Candidate{EntityURI: "dbr:Paris_Hilton", Frequency: 30, Mention: "paris", Similarity: 1}, got[1])

		similar, err := ix.Similar("pariz", 0.8)
		require.NoError(t, err)
		require.Len(t, similar, 2)
		assert.InDelta(t, 0.8, similar[0].Similarity, 1e-9)
	})

	t.Run("properties", func(t *testing.T) {
		ix, err := NewSQLitePropertyIndex(db)
		require.NoError(t, err)

		got, err := ix.Properties("http://dbpedia.org/resource/Paris")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "dbo:populationTotal", got[0].PropertyURI)
		assert.Equal(t, "dt:squareKilometre", got[1].LiteralType)
	})

	t.Run("classes keep first label", func(t *testing.T) {
		ix, err := NewSQLiteClassIndex(db)
		require.NoError(t, err)

		uri, ok, err := ix.Class("City")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "dbo:City", uri)

		_, ok, err = ix.Class("river")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestImportRollsBackOnBadRow(t *testing.T) {
	db := wtutesting.CreateMigratedTestDB(t)

	_, err := ImportMentions(context.Background(), db,
		writeFixture(t, "m.tsv", "Paris\tdbr:Paris\t1\nBerlin\tdbr:Berlin\tmany\n"), '\t', nil)
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM mention_index").Scan(&n))
	assert.Zero(t, n)
}

func TestSQLiteBackendWithoutSchema(t *testing.T) {
	db := wtutesting.CreateTestDB(t)

	_, err := NewSQLiteMentionIndex(db)
	assert.True(t, errors.IsBackendUnavailable(err))

	_, err = NewSQLitePropertyIndex(nil)
	assert.True(t, errors.IsBackendUnavailable(err))
}

func TestSQLiteQueryFailureIsBackendUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM mention_index").WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("SELECT entity_uri, frequency FROM mention_index").
		WithArgs("paris").
		WillReturnError(errors.New("disk I/O error"))

	ix, err := NewSQLiteMentionIndex(db)
	require.NoError(t, err)

	_, err = ix.Lookup("paris")
	require.Error(t, err)
	assert.True(t, errors.IsBackendUnavailable(err))
	assert.Contains(t, err.Error(), "disk I/O error")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClassQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM class_index").WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("SELECT class_uri FROM class_index").WillReturnError(errors.New("database is locked"))

	ix, err := NewSQLiteClassIndex(db)
	require.NoError(t, err)

	_, _, err = ix.Class("city")
	assert.True(t, errors.IsBackendUnavailable(err))
}
