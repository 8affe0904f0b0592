package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"receipt_system/internal/domain"
	"receipt_system/internal/pagination"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

var receiptColumns = []string{"id", "products", "payment_type", "payment_amount", "total", "rest", "created_at", "owner_id"}

func TestRepository_CreateUser(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO `users`")).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	u := &domain.User{Email: "a@b.c", Username: "testuser", FirstName: "test", LastName: "user", HashedPassword: "hash"}
	require.NoError(t, repo.CreateUser(context.Background(), u))

	assert.Equal(t, uint(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateUser_Duplicate(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO `users`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'testuser' for key 'idx_users_username'"})
	mock.ExpectRollback()

	err := repo.CreateUser(context.Background(), &domain.User{Username: "testuser"})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetUserByUsername(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	rows := sqlmock.NewRows([]string{"id", "email", "username", "first_name", "last_name", "hashed_password", "is_admin"}).
		AddRow(3, "a@b.c", "testuser", "test", "user", "hash", true)
	mock.ExpectQuery(q("SELECT * FROM `users` WHERE username = ?")).WillReturnRows(rows)

	u, err := repo.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)

	assert.Equal(t, uint(3), u.ID)
	assert.Equal(t, "testuser", u.Username)
	assert.True(t, u.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetUserByUsername_NotFound(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectQuery(q("SELECT * FROM `users` WHERE username = ?")).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_UpdateUserPassword_NoRows(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE `users` SET `hashed_password`=?")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateUserPassword(context.Background(), 9, "newhash")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteUser(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM `users`")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteUser(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateReceipt(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO `receipts`")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := domain.NewReceipt(1, []domain.LineItem{{Name: "Tea", Price: 2, Quantity: 2}},
		domain.Payment{Type: domain.PaymentCash, Amount: 5}, time.Now())
	require.NoError(t, repo.CreateReceipt(context.Background(), &r))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetReceipt_ScopedToOwner(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	id := uuid.New()
	created := time.Date(2024, 3, 6, 17, 29, 59, 0, time.UTC)
	rows := sqlmock.NewRows(receiptColumns).
		AddRow(id.String(), `[{"name":"Tea","price":2,"quantity":2,"total":4}]`, "cash", 5.0, 4.0, 1.0, created, 1)
	mock.ExpectQuery(q("SELECT * FROM `receipts` WHERE id = ? AND owner_id = ?")).WillReturnRows(rows)

	owner := uint(1)
	r, err := repo.GetReceipt(context.Background(), id, &owner)
	require.NoError(t, err)

	assert.Equal(t, id, r.ID)
	assert.Equal(t, []domain.LineItem{{Name: "Tea", Price: 2, Quantity: 2, Total: 4}}, r.Products)
	assert.Equal(t, domain.Payment{Type: domain.PaymentCash, Amount: 5}, r.Payment)
	assert.Equal(t, 1.0, r.Rest)
	assert.True(t, created.Equal(r.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetReceipt_NotFound(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectQuery(q("SELECT * FROM `receipts` WHERE id = ?")).WillReturnRows(sqlmock.NewRows(receiptColumns))

	_, err := repo.GetReceipt(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteReceipt_OtherOwner(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM `receipts` WHERE id = ? AND owner_id = ?")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	owner := uint(2)
	err := repo.DeleteReceipt(context.Background(), uuid.New(), &owner)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_QueryReceipts_Paginates(t *testing.T) {
	repo, mock := newSQLMockRepository(t)
	now := time.Now().UTC()
	mock.ExpectQuery(q("SELECT count(*) FROM `receipts` WHERE owner_id = ? AND payment_type = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(q("SELECT * FROM `receipts` WHERE owner_id = ? AND payment_type = ? ORDER BY created_at desc, id desc LIMIT")).
		WillReturnRows(sqlmock.NewRows(receiptColumns).
			AddRow(uuid.NewString(), `[]`, "cash", 10.0, 10.0, 0.0, now, 1).
			AddRow(uuid.NewString(), `[]`, "cash", 20.0, 15.0, 5.0, now.Add(-time.Hour), 1))

	owner := uint(1)
	query := repo.QueryReceipts(ReceiptFilter{OwnerID: &owner, PaymentType: domain.PaymentCash})
	resp, err := pagination.Paginate(context.Background(), query, pagination.PageParams{Page: 1, Size: 2}, pagination.Identity[domain.Receipt])
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalResults)
	assert.Equal(t, 2, resp.Pages)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 15.0, resp.Results[1].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptFilter_Matches(t *testing.T) {
	owner := uint(1)
	minTotal := 10.0
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := domain.Receipt{OwnerID: 1, Payment: domain.Payment{Type: domain.PaymentCash}, Total: 10, CreatedAt: from}

	assert.True(t, ReceiptFilter{}.Matches(r))
	assert.True(t, ReceiptFilter{OwnerID: &owner, PaymentType: domain.PaymentCash, MinTotal: &minTotal, CreatedFrom: &from, CreatedBefore: &before}.Matches(r))

	other := uint(2)
	assert.False(t, ReceiptFilter{OwnerID: &other}.Matches(r))
	assert.False(t, ReceiptFilter{PaymentType: domain.PaymentCashless}.Matches(r))
	higher := 10.01
	assert.False(t, ReceiptFilter{MinTotal: &higher}.Matches(r))

	r.CreatedAt = before
	assert.False(t, ReceiptFilter{CreatedBefore: &before}.Matches(r))
	assert.Len(t, ReceiptFilter{OwnerID: &owner, CreatedFrom: &from, CreatedBefore: &before}.Scopes(), 3)
}
