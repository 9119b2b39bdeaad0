package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionstore/internal/product"
)

type mockProductRepository struct {
	listFunc    func(ctx context.Context, category product.Category) ([]product.Product, error)
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	createFunc  func(ctx context.Context, p *product.Product) error
	updateFunc  func(ctx context.Context, p *product.Product) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error

	createCalls int
	updateCalls int
	deleteCalls int
}

func (m *mockProductRepository) List(ctx context.Context, category product.Category) ([]product.Product, error) {
	return m.listFunc(ctx, category)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepository) Create(ctx context.Context, p *product.Product) error {
	m.createCalls++
	return m.createFunc(ctx, p)
}

func (m *mockProductRepository) Update(ctx context.Context, p *product.Product) error {
	m.updateCalls++
	return m.updateFunc(ctx, p)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	return m.deleteFunc(ctx, id)
}

func newMockRepo() *mockProductRepository {
	return &mockProductRepository{
		listFunc: func(ctx context.Context, category product.Category) ([]product.Product, error) {
			return []product.Product{}, nil
		},
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*product.Product, error) {
			return &product.Product{ID: id}, nil
		},
		createFunc: func(ctx context.Context, p *product.Product) error { return nil },
		updateFunc: func(ctx context.Context, p *product.Product) error { return nil },
		deleteFunc: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
}

func TestService_CreateProduct_InvalidFormDoesNotWrite(t *testing.T) {
	repo := newMockRepo()
	svc := product.NewService(repo)

	_, err := svc.CreateProduct(context.Background(), product.Form{
		Name:        "Shirt",
		Description: "desc",
		Price:       "abc",
		ImageURL:    "https://cdn.example.com/a.jpg",
		Category:    "men",
		Stock:       "3",
	})

	assert.ErrorIs(t, err, product.ErrInvalidPrice)
	assert.Zero(t, repo.createCalls, "create must not be called for an invalid form")
}

func TestService_CreateProduct_AssignsID(t *testing.T) {
	repo := newMockRepo()
	svc := product.NewService(repo)

	created, err := svc.CreateProduct(context.Background(), validForm())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 1, repo.createCalls)
}

func TestService_ListProducts_RejectsUnknownCategory(t *testing.T) {
	repo := newMockRepo()
	svc := product.NewService(repo)

	_, err := svc.ListProducts(context.Background(), product.Category("kids"))
	assert.ErrorIs(t, err, product.ErrInvalidCategory)
}

func TestService_DeleteProduct_TwoStep(t *testing.T) {
	repo := newMockRepo()
	svc := product.NewService(repo)
	ctx := context.Background()

	x := uuid.Must(uuid.NewV4())
	y := uuid.Must(uuid.NewV4())

	// First call arms, nothing is deleted.
	deleted, err := svc.DeleteProduct(ctx, x)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Zero(t, repo.deleteCalls)

	// Second call on the same id deletes.
	deleted, err = svc.DeleteProduct(ctx, x)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 1, repo.deleteCalls)

	// Arming x then switching to y must not delete x, and must re-arm y.
	deleted, err = svc.DeleteProduct(ctx, x)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteProduct(ctx, y)
	require.NoError(t, err)
	assert.False(t, deleted, "switching items re-arms instead of deleting")
	assert.Equal(t, 1, repo.deleteCalls)

	deleted, err = svc.DeleteProduct(ctx, y)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 2, repo.deleteCalls)
}

func TestService_DeleteProduct_ResetAfterFailure(t *testing.T) {
	repo := newMockRepo()
	repo.deleteFunc = func(ctx context.Context, id uuid.UUID) error {
		return errors.New("connection reset")
	}
	svc := product.NewService(repo)
	ctx := context.Background()

	id := uuid.Must(uuid.NewV4())

	deleted, err := svc.DeleteProduct(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.DeleteProduct(ctx, id)
	assert.Error(t, err)

	// A failed confirmation clears the armed slot, so the next call arms
	// again instead of deleting.
	deleted, err = svc.DeleteProduct(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestService_DeleteProduct_NotFound(t *testing.T) {
	repo := newMockRepo()
	repo.deleteFunc = func(ctx context.Context, id uuid.UUID) error {
		return product.ErrProductNotFound
	}
	svc := product.NewService(repo)
	ctx := context.Background()

	id := uuid.Must(uuid.NewV4())

	_, err := svc.DeleteProduct(ctx, id)
	require.NoError(t, err)

	_, err = svc.DeleteProduct(ctx, id)
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}
