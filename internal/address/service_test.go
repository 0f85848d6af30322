package address

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/memstore"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func fields(street string) domain.AddressFields {
	return domain.AddressFields{
		Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100",
		Street: street, City: "Springfield", Country: "US",
	}
}

func boolPtr(v bool) *bool { return &v }

func TestFirstAddressIsDefault(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, "u1", fields("2 Oak Ave"), false)
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestCreateDefaultDemotesPrevious(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)

	second, err := svc.Create(ctx, "u1", fields("2 Oak Ave"), true)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	got, err := svc.Get(ctx, first.ID, "u1")
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
}

func TestSetDefault(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", fields("2 Oak Ave"), false)
	require.NoError(t, err)

	_, err = svc.SetDefault(ctx, second.ID, "u1")
	require.NoError(t, err)

	all, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	defaults := 0
	for _, a := range all {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
	_ = first
}

func TestUnsetOnlyDefaultKeepsIt(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	only, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, only.ID, "u1", fields("1 Main St"), boolPtr(false))
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
}

func TestDeleteDefaultPromotesAnother(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", fields("2 Oak Ave"), false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID, "u1"))

	got, err := svc.Get(ctx, second.ID, "u1")
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestDeleteReferencedAddressFails(t *testing.T) {
	st := memstore.New()
	svc := NewService(st)
	ctx := context.Background()

	addr, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)

	err = st.InTx(ctx, func(tx storage.Tx) error {
		return tx.InsertOrder(ctx, &domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", AddressID: addr.ID})
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, addr.ID, "u1")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
}

func TestOwnership(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	addr, err := svc.Create(ctx, "u1", fields("1 Main St"), false)
	require.NoError(t, err)

	_, err = svc.Get(ctx, addr.ID, "u2")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
	err = svc.Delete(ctx, addr.ID, "u2")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
}

func TestResolveTx(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	svc := NewService(st)

	t.Run("creates default first address", func(t *testing.T) {
		err := st.InTx(ctx, func(tx storage.Tx) error {
			addr, err := ResolveTx(ctx, tx, "u1", Input{AddressFields: fields("1 Main St")}, testNow())
			if err != nil {
				return err
			}
			assert.True(t, addr.IsDefault)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("updates referenced address in place when fields differ", func(t *testing.T) {
		existing, err := svc.Create(ctx, "u2", fields("1 Main St"), false)
		require.NoError(t, err)

		err = st.InTx(ctx, func(tx storage.Tx) error {
			addr, err := ResolveTx(ctx, tx, "u2", Input{ID: &existing.ID, AddressFields: fields("9 Elm St")}, testNow())
			if err != nil {
				return err
			}
			assert.Equal(t, existing.ID, addr.ID)
			assert.Equal(t, "9 Elm St", addr.Street)
			return nil
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx, existing.ID, "u2")
		require.NoError(t, err)
		assert.Equal(t, "9 Elm St", got.Street)
	})

	t.Run("rejects another user's address", func(t *testing.T) {
		existing, err := svc.Create(ctx, "u3", fields("1 Main St"), false)
		require.NoError(t, err)

		err = st.InTx(ctx, func(tx storage.Tx) error {
			_, err := ResolveTx(ctx, tx, "u4", Input{ID: &existing.ID, AddressFields: fields("1 Main St")}, testNow())
			return err
		})
		assert.True(t, domain.IsCode(err, domain.CodeInvalid))
	})
}
