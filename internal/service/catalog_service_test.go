package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/generation"
	"github.com/phrazzld/storefront-api/internal/media"
	"github.com/phrazzld/storefront-api/internal/metrics"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// counterValue returns the value of the counter whose name ends in suffix
// and which carries label as its only label value.
func counterValue(t *testing.T, m *metrics.Metrics, suffix, label string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), suffix) {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

type catalogFixture struct {
	svc        *CatalogServiceImpl
	categories *mocks.MockCategoryStore
	products   *mocks.MockProductStore
	generator  *mocks.MockGenerator
	images     *mocks.MockImageStore
	metrics    *metrics.Metrics
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := mocks.NewTxDB()
	t.Cleanup(func() { _ = db.Close() })

	f := &catalogFixture{
		categories: mocks.NewMockCategoryStore(),
		products:   mocks.NewMockProductStore(),
		generator:  &mocks.MockGenerator{},
		images:     &mocks.MockImageStore{BaseURL: "/media"},
		metrics:    metrics.New(),
	}
	f.svc = NewCatalogService(f.categories, f.products, db, f.generator, f.images, f.metrics, testLogger)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f *catalogFixture) category(name string, parent *int64) *domain.Category {
	return f.categories.Add(&domain.Category{Name: name, ParentID: parent})
}

func TestCreateCategoryParentResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      func(root *domain.Category) CategoryInput
		wantParent bool
		wantErr    error
	}{
		{
			name: "no parent",
			input: func(*domain.Category) CategoryInput {
				return CategoryInput{Patch: domain.CategoryPatch{Name: ptr("Tents")}}
			},
		},
		{
			name: "parent by id",
			input: func(root *domain.Category) CategoryInput {
				return CategoryInput{Patch: domain.CategoryPatch{Name: ptr("Tents")}, ParentID: domain.SomeID(root.ID)}
			},
			wantParent: true,
		},
		{
			name: "parent by name",
			input: func(*domain.Category) CategoryInput {
				return CategoryInput{Patch: domain.CategoryPatch{Name: ptr("Tents")}, ParentName: ptr("Outdoor")}
			},
			wantParent: true,
		},
		{
			name: "unknown parent name",
			input: func(*domain.Category) CategoryInput {
				return CategoryInput{Patch: domain.CategoryPatch{Name: ptr("Tents")}, ParentName: ptr("Nowhere")}
			},
			wantErr: ErrParentNotFound,
		},
		{
			name: "unknown parent id",
			input: func(*domain.Category) CategoryInput {
				return CategoryInput{Patch: domain.CategoryPatch{Name: ptr("Tents")}, ParentID: domain.SomeID(404)}
			},
			wantErr: ErrParentNotFound,
		},
		{
			name: "id and name disagree",
			input: func(root *domain.Category) CategoryInput {
				return CategoryInput{
					Patch:      domain.CategoryPatch{Name: ptr("Tents")},
					ParentID:   domain.SomeID(root.ID + 100),
					ParentName: ptr("Outdoor"),
				}
			},
			wantErr: ErrAmbiguousParent,
		},
		{
			name: "empty name",
			input: func(*domain.Category) CategoryInput {
				return CategoryInput{Patch: domain.CategoryPatch{Name: ptr("  ")}}
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newCatalogFixture(t)
			root := f.category("Outdoor", nil)

			created, err := f.svc.CreateCategory(context.Background(), tt.input(root))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			if tt.wantParent {
				require.NotNil(t, created.ParentID)
				assert.Equal(t, root.ID, *created.ParentID)
			} else {
				assert.Nil(t, created.ParentID)
			}
		})
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	f.category("Outdoor", nil)

	_, err := f.svc.CreateCategory(context.Background(), CategoryInput{Patch: domain.CategoryPatch{Name: ptr("Outdoor")}})
	assert.ErrorIs(t, err, store.ErrCategoryNameExists)
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	root := f.category("Outdoor", nil)
	child := f.category("Tents", &root.ID)
	grandchild := f.category("Two person", &child.ID)

	_, err := f.svc.UpdateCategory(ctx, root.ID, CategoryInput{ParentID: domain.SomeID(root.ID)})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	_, err = f.svc.UpdateCategory(ctx, root.ID, CategoryInput{ParentID: domain.SomeID(grandchild.ID)})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	_, err = f.svc.UpdateCategory(ctx, root.ID, CategoryInput{ParentName: ptr("Tents")})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	stored, err := f.categories.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)
}

func TestUpdateCategoryLocksBeforeCycleCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	a := f.category("Outdoor", nil)
	b := f.category("Sport", nil)

	// A concurrent move of Sport under Outdoor commits while the lock is awaited.
	var locked [][2]int64
	f.categories.LockForUpdateFn = func(ctx context.Context, id, parentID int64) error {
		locked = append(locked, [2]int64{id, parentID})
		moved := *b
		moved.ParentID = &a.ID
		return f.categories.Update(ctx, &moved)
	}

	_, err := f.svc.UpdateCategory(ctx, a.ID, CategoryInput{ParentID: domain.SomeID(b.ID)})
	assert.ErrorIs(t, err, ErrCategoryCycle)
	assert.Equal(t, [][2]int64{{a.ID, b.ID}}, locked)

	stored, err := f.categories.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)

	// Detaching takes no lock.
	_, err = f.svc.UpdateCategory(ctx, b.ID, CategoryInput{ParentID: domain.NullID()})
	require.NoError(t, err)
	assert.Len(t, locked, 1)

	lockErr := errors.New("lock timeout")
	f.categories.LockForUpdateFn = func(context.Context, int64, int64) error { return lockErr }
	_, err = f.svc.UpdateCategory(ctx, a.ID, CategoryInput{ParentID: domain.SomeID(b.ID)})
	assert.ErrorIs(t, err, lockErr)
}

func TestUpdateCategoryParentChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	a := f.category("Outdoor", nil)
	b := f.category("Sport", nil)
	child := f.category("Tents", &a.ID)

	updated, err := f.svc.UpdateCategory(ctx, child.ID, CategoryInput{ParentID: domain.SomeID(b.ID)})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, b.ID, *updated.ParentID)

	updated, err = f.svc.UpdateCategory(ctx, child.ID, CategoryInput{Patch: domain.CategoryPatch{SortOrder: ptr(3)}})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID, "parent is kept when not mentioned")
	assert.Equal(t, 3, updated.SortOrder)

	updated, err = f.svc.UpdateCategory(ctx, child.ID, CategoryInput{ParentID: domain.NullID()})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)

	updated, err = f.svc.UpdateCategory(ctx, child.ID, CategoryInput{ParentName: ptr("Sport")})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, b.ID, *updated.ParentID)

	updated, err = f.svc.UpdateCategory(ctx, child.ID, CategoryInput{ParentName: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)

	_, err = f.svc.UpdateCategory(ctx, 999, CategoryInput{Patch: domain.CategoryPatch{SortOrder: ptr(1)}})
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)
}

func TestCategoryChildren(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	root := f.category("Outdoor", nil)
	tents := f.category("Tents", &root.ID)
	backpacks := f.category("Backpacks", &root.ID)
	sport := f.category("Sport", nil)

	children, err := f.svc.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	count, err := f.svc.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.svc.ListChildren(ctx, 999)
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	_, err = f.svc.CountChildren(ctx, 999)
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)

	require.NoError(t, f.svc.DeleteCategory(ctx, root.ID))
	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, root.ID), store.ErrCategoryNotFound)

	for _, id := range []int64{tents.ID, backpacks.ID} {
		orphan, err := f.svc.GetCategory(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, orphan.ParentID, "child %d should become a root", id)
	}

	unrelated, err := f.svc.GetCategory(ctx, sport.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sport", unrelated.Name)
	assert.Nil(t, unrelated.ParentID)
}

func TestCreateProductDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description *string
		generated   string
		genErr      error
		want        string
		wantCalls   int
		wantOK      float64
		wantFailed  float64
	}{
		{
			name:      "generated when missing",
			generated: "Прочный рюкзак для походов",
			want:      "Прочный рюкзак для походов",
			wantCalls: 1,
			wantOK:    1,
		},
		{
			name:        "explicit description kept",
			description: ptr("Hand written"),
			want:        "Hand written",
		},
		{
			name:       "generator failure leaves it empty",
			genErr:     generation.ErrTransientFailure,
			want:       "",
			wantCalls:  1,
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newCatalogFixture(t)
			f.generator.Description = tt.generated
			f.generator.Err = tt.genErr

			product, err := f.svc.CreateProduct(context.Background(), domain.ProductPatch{
				Name:        ptr("Backpack X200"),
				Brand:       ptr("Nord"),
				CategoryID:  ptr(int64(1)),
				Description: tt.description,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, product.Description)
			assert.Len(t, f.generator.Calls(), tt.wantCalls)
			assert.Equal(t, int64(domain.DefaultProductPrice), product.Price)
			assert.InDelta(t, domain.DefaultProductRating, product.Rating, 0.001)

			assert.InDelta(t, tt.wantOK, counterValue(t, f.metrics, "generated_descriptions_total", "success"), 0.001)
			assert.InDelta(t, tt.wantFailed, counterValue(t, f.metrics, "generated_descriptions_total", "failure"), 0.001)
		})
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	_, err := f.svc.CreateProduct(ctx, domain.ProductPatch{Name: ptr("Backpack")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.generator.Calls(), "invalid products never reach the generator")

	f.products.Add(&domain.Product{Name: "Backpack", Brand: "Nord", CategoryID: 1})
	_, err = f.svc.CreateProduct(ctx, domain.ProductPatch{
		Name: ptr("Backpack"), Brand: ptr("Nord"), CategoryID: ptr(int64(1)), Description: ptr("x"),
	})
	assert.ErrorIs(t, err, store.ErrProductNameExists)
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)
	p := f.products.Add(&domain.Product{Name: "Backpack", Brand: "Nord", CategoryID: 1, Price: 10, Rating: 5})

	updated, err := f.svc.UpdateProduct(ctx, p.ID, domain.ProductPatch{Price: ptr(int64(25))})
	require.NoError(t, err)
	assert.Equal(t, int64(25), updated.Price)
	assert.Equal(t, "Backpack", updated.Name)

	_, err = f.svc.UpdateProduct(ctx, p.ID, domain.ProductPatch{Rating: ptr(7.5)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateProduct(ctx, 999, domain.ProductPatch{Price: ptr(int64(1))})
	assert.ErrorIs(t, err, store.ErrProductNotFound)

	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, p.ID), store.ErrProductNotFound)
}

func TestGetProductsBulk(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)
	a := f.products.Add(&domain.Product{Name: "A", Brand: "B", CategoryID: 1})
	b := f.products.Add(&domain.Product{Name: "B", Brand: "B", CategoryID: 1})
	f.products.Add(&domain.Product{Name: "C", Brand: "B", CategoryID: 1})

	got, err := f.svc.GetProducts(ctx, []int64{b.ID, a.ID, 999})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.svc.GetProducts(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.GetProducts(ctx, make([]int64, MaxBulkProducts+1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUploadImages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)
	c := f.category("Outdoor", nil)
	p := f.products.Add(&domain.Product{Name: "A", Brand: "B", CategoryID: c.ID})

	category, err := f.svc.UploadCategoryImage(ctx, c.ID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(category.Image, "/media/categories/"))
	assert.True(t, strings.HasSuffix(category.Image, ".png"))

	product, err := f.svc.UploadProductImage(ctx, p.ID, "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(product.Image, "/media/products/"))
	assert.Equal(t, 2, f.images.Objects())

	_, err = f.svc.UploadProductImage(ctx, p.ID, "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, media.ErrUnsupportedType)

	_, err = f.svc.UploadCategoryImage(ctx, 999, "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)

	f.images.Err = media.ErrStoreFailed
	_, err = f.svc.UploadProductImage(ctx, p.ID, "image/png", strings.NewReader("png"))
	assert.True(t, errors.Is(err, media.ErrStoreFailed))
	assert.Equal(t, 2, f.images.Objects())
}
