package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "entities", []string{"a", "b"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"entities"}, []string{"code", "unit_name"}).WillReturnResult(3)

	rows := [][]any{{"016/020/30", "Chicago"}, {"016/040/32", "Oak Park"}, {"099/010/30", "Zion"}}
	n, err := CopyFrom(context.Background(), mock, "entities", []string{"code", "unit_name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"entities"}, []string{"code", "unit_name"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"016/020/30", "Chicago"}}
	_, err = CopyFrom(context.Background(), mock, "entities", []string{"code", "unit_name"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO entities")
	assert.NoError(t, mock.ExpectationsWereMet())
}
