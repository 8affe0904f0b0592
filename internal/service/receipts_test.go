package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"receipt_system/internal/apperr"
	"receipt_system/internal/domain"
	"receipt_system/internal/formatter"
	"receipt_system/internal/pagination"
	"receipt_system/internal/repository"
	"receipt_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 6, 17, 29, 59, 0, time.UTC)

func num(v float64) *float64 { return &v }

func scenarioInput() CreateReceiptInput {
	return CreateReceiptInput{
		Products: []LineItemInput{
			{Name: "Bar of chocolate", Price: num(20.00), Quantity: num(2)},
			{Name: "Bottle of sparkling water", Price: num(5.00), Quantity: num(3)},
		},
		Payment: PaymentInput{Type: domain.PaymentCash, Amount: num(60.00)},
	}
}

func newReceiptService(t *testing.T, idempotency utils.IdempotencyStore) (*ReceiptService, *repository.MockRepository) {
	repo := repository.NewMockRepository()
	svc := NewReceiptService(repo, repo, idempotency)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func newRedisStore(t *testing.T) *utils.RedisIdempotencyStore {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return utils.NewRedisIdempotencyStore(rdb)
}

func seed(t *testing.T, repo *repository.MockRepository, owner uint, pt domain.PaymentType, amount float64, at time.Time) domain.Receipt {
	r := domain.NewReceipt(owner, []domain.LineItem{{Name: "Item", Price: amount, Quantity: 1}},
		domain.Payment{Type: pt, Amount: amount}, at)
	require.NoError(t, repo.CreateReceipt(context.Background(), &r))
	return r
}

func TestReceiptService_Create(t *testing.T) {
	svc, repo := newReceiptService(t, nil)

	r, err := svc.Create(context.Background(), 1, scenarioInput(), "")
	require.NoError(t, err)

	assert.Equal(t, 55.00, r.Total)
	assert.Equal(t, 5.00, r.Rest)
	assert.Equal(t, 40.00, r.Products[0].Total)
	assert.Equal(t, 15.00, r.Products[1].Total)
	assert.Equal(t, fixedNow, r.CreatedAt)

	stored, err := repo.GetReceipt(context.Background(), r.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, *r, *stored)
}

func TestReceiptService_Create_Validation(t *testing.T) {
	svc, _ := newReceiptService(t, nil)

	tests := []struct {
		name   string
		mutate func(*CreateReceiptInput)
	}{
		{"blank name", func(in *CreateReceiptInput) { in.Products[0].Name = "  " }},
		{"negative price", func(in *CreateReceiptInput) { in.Products[0].Price = num(-1) }},
		{"missing quantity", func(in *CreateReceiptInput) { in.Products[1].Quantity = nil }},
		{"no products", func(in *CreateReceiptInput) { in.Products = []LineItemInput{} }},
		{"unknown payment type", func(in *CreateReceiptInput) { in.Payment.Type = "card" }},
		{"negative payment", func(in *CreateReceiptInput) { in.Payment.Amount = num(-0.01) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), 1, in, "")
			assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
		})
	}
}

func TestReceiptService_Create_ZeroPriceAllowed(t *testing.T) {
	svc, _ := newReceiptService(t, nil)
	in := scenarioInput()
	in.Products[0].Price = num(0)

	r, err := svc.Create(context.Background(), 1, in, "")
	require.NoError(t, err)
	assert.Equal(t, 15.00, r.Total)
}

func TestReceiptService_Create_IdempotencyKey(t *testing.T) {
	svc, _ := newReceiptService(t, newRedisStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, scenarioInput(), "key-1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, scenarioInput(), "key-1")
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	_, err = svc.Create(ctx, 2, scenarioInput(), "key-1")
	assert.NoError(t, err)

	_, err = svc.Create(ctx, 1, scenarioInput(), "")
	assert.NoError(t, err)
}

func TestReceiptService_Create_FailureReleasesKey(t *testing.T) {
	svc, repo := newReceiptService(t, newRedisStore(t))
	ctx := context.Background()

	repo.ErrorOnNextCall = errors.New("connection reset")
	_, err := svc.Create(ctx, 1, scenarioInput(), "key-1")
	require.True(t, apperr.Is(err, apperr.CodeInternal))

	_, err = svc.Create(ctx, 1, scenarioInput(), "key-1")
	assert.NoError(t, err)
}

func TestReceiptService_Create_KeyIgnoredWithoutStore(t *testing.T) {
	svc, _ := newReceiptService(t, nil)

	_, err := svc.Create(context.Background(), 1, scenarioInput(), "key-1")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, scenarioInput(), "key-1")
	assert.NoError(t, err)
}

func TestReceiptService_List_Filters(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	ctx := context.Background()
	params := pagination.PageParams{Page: 1, Size: 50}

	lastMonth := seed(t, repo, 1, domain.PaymentCash, 10, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	firstOfMonth := seed(t, repo, 1, domain.PaymentCashless, 30, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	seed(t, repo, 1, domain.PaymentCash, 50, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC))
	seed(t, repo, 2, domain.PaymentCash, 99, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))

	all, err := svc.List(ctx, 1, ListFilter{}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalResults)
	assert.Equal(t, firstOfMonth.ID, all.Results[0].ID)

	cashless, err := svc.List(ctx, 1, ListFilter{PaymentType: domain.PaymentCashless}, params)
	require.NoError(t, err)
	require.Len(t, cashless.Results, 1)
	assert.Equal(t, firstOfMonth.ID, cashless.Results[0].ID)

	atLeast30, err := svc.List(ctx, 1, ListFilter{MinTotal: num(30)}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atLeast30.TotalResults)

	february, err := svc.List(ctx, 1, ListFilter{LastMonth: true}, params)
	require.NoError(t, err)
	require.Len(t, february.Results, 1)
	assert.Equal(t, lastMonth.ID, february.Results[0].ID)
}

func TestReceiptService_List_EmptyIsNotFound(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	seed(t, repo, 2, domain.PaymentCash, 10, fixedNow)

	_, err := svc.List(context.Background(), 1, ListFilter{}, pagination.PageParams{Page: 1, Size: 50})

	require.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Equal(t, "Receipts not found", apperr.From(err).Message)
}

func TestReceiptService_List_HugePageIsNotFound(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	seed(t, repo, 1, domain.PaymentCash, 10, fixedNow)

	_, err := svc.List(context.Background(), 1, ListFilter{}, pagination.PageParams{Page: 4611686018427387905, Size: 4})

	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestReceiptService_List_InvalidParams(t *testing.T) {
	svc, _ := newReceiptService(t, nil)

	_, err := svc.List(context.Background(), 1, ListFilter{}, pagination.PageParams{Page: 0, Size: 50})

	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestReceiptService_ListAll(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	seed(t, repo, 1, domain.PaymentCash, 10, fixedNow)
	seed(t, repo, 2, domain.PaymentCash, 20, fixedNow.Add(time.Minute))
	seed(t, repo, 3, domain.PaymentCash, 30, fixedNow.Add(2*time.Minute))

	resp, err := svc.ListAll(context.Background(), pagination.PageParams{Page: 2, Size: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalResults)
	assert.Equal(t, 2, resp.Pages)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, uint(1), resp.Results[0].OwnerID)
}

func TestReceiptService_Ownership(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	ctx := context.Background()
	r := seed(t, repo, 1, domain.PaymentCash, 10, fixedNow)

	_, err := svc.Get(ctx, 2, r.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	err = svc.Delete(ctx, 2, r.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	got, err := svc.Get(ctx, 1, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, 1, r.ID))
	_, err = svc.Get(ctx, 1, r.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestReceiptService_DeleteAny(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	r := seed(t, repo, 1, domain.PaymentCash, 10, fixedNow)

	require.NoError(t, svc.DeleteAny(context.Background(), r.ID))
	err := svc.DeleteAny(context.Background(), r.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestReceiptService_RenderText(t *testing.T) {
	svc, repo := newReceiptService(t, nil)
	ctx := context.Background()
	owner := &domain.User{Email: "a@b.c", Username: "testuser", FirstName: "test", LastName: "user"}
	require.NoError(t, repo.CreateUser(ctx, owner))
	r := seed(t, repo, owner.ID, domain.PaymentCash, 10, fixedNow)

	text, err := svc.RenderText(ctx, r.ID, 40, formatter.Ukrainian)
	require.NoError(t, err)
	assert.Contains(t, text, "ФОП TEST USER")
	assert.Equal(t, formatter.Format(r, "ФОП TEST USER", 40, formatter.Ukrainian), text)

	require.NoError(t, repo.DeleteUser(ctx, owner.ID))
	text, err = svc.RenderText(ctx, r.ID, 40, formatter.English)
	require.NoError(t, err)
	assert.Equal(t, formatter.Format(r, "FOP", 40, formatter.English), text)

	_, err = svc.RenderText(ctx, uuid.New(), 40, formatter.Ukrainian)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestLastMonthRange(t *testing.T) {
	from, before := LastMonthRange(time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), before)

	from, before = LastMonthRange(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), before)
}
