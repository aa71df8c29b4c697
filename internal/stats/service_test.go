package stats

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM patients").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM treatments").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(30)))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS count, COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"count", "total", "paid"}).
			AddRow(int64(8), 1500.0, 900.0))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), d.TotalPatients)
	assert.Equal(t, int64(30), d.TotalTreatments)
	assert.Equal(t, int64(8), d.TotalInvoices)
	assert.Equal(t, 1500.0, d.TotalRevenue)
	assert.Equal(t, 900.0, d.PaidRevenue)
	assert.Equal(t, 600.0, d.OutstandingRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}
