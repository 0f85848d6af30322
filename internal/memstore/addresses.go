package memstore

import (
	"context"
	"sort"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func (t *Tx) Address(_ context.Context, id string) (*domain.Address, error) {
	a, ok := t.st.addresses[id]
	if !ok {
		return nil, domain.NotFoundf("address not found")
	}
	return &a, nil
}

func (t *Tx) Addresses(_ context.Context, userID string) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range t.st.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *Tx) CountAddresses(_ context.Context, userID string) (int, error) {
	n := 0
	for _, a := range t.st.addresses {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (t *Tx) InsertAddress(_ context.Context, addr *domain.Address) error {
	t.st.addresses[addr.ID] = *addr
	return nil
}

func (t *Tx) UpdateAddress(_ context.Context, addr *domain.Address) error {
	if _, ok := t.st.addresses[addr.ID]; !ok {
		return domain.NotFoundf("address not found")
	}
	t.st.addresses[addr.ID] = *addr
	return nil
}

func (t *Tx) DeleteAddress(_ context.Context, id string) error {
	delete(t.st.addresses, id)
	return nil
}

func (t *Tx) ClearDefaultAddress(_ context.Context, userID string) error {
	for id, a := range t.st.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			t.st.addresses[id] = a
		}
	}
	return nil
}

func (t *Tx) AddressOrderCount(_ context.Context, addressID string) (int, error) {
	n := 0
	for _, o := range t.st.orders {
		if o.AddressID == addressID {
			n++
		}
	}
	return n, nil
}
