// Package address manages the user's address book. At most one address
// per user is the default; the first one created always is.
package address

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type Service struct {
	db  storage.DB
	now func() time.Time
}

func NewService(db storage.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Input is an address as supplied at checkout: either a reference to an
// existing address (ID set) with possibly edited fields, or a brand new
// one.
type Input struct {
	ID *string `json:"id,omitempty"`
	domain.AddressFields
}

// ResolveTx implements the checkout address step: an existing address
// whose stored fields differ from the input is updated in place; without
// an id a new address is created, default when the user has none yet.
func ResolveTx(ctx context.Context, tx storage.Tx, userID string, in Input, now time.Time) (*domain.Address, error) {
	if in.ID != nil {
		addr, err := tx.Address(ctx, *in.ID)
		if err != nil {
			return nil, err
		}
		if addr.UserID != userID {
			return nil, domain.Invalidf("address does not belong to user")
		}
		if addr.Fields() != in.AddressFields {
			applyFields(addr, in.AddressFields)
			if err := tx.UpdateAddress(ctx, addr); err != nil {
				return nil, err
			}
		}
		return addr, nil
	}

	count, err := tx.CountAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	addr := &domain.Address{
		ID:        uuid.NewString(),
		UserID:    userID,
		IsDefault: count == 0,
		CreatedAt: now,
	}
	applyFields(addr, in.AddressFields)
	if err := tx.InsertAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	var out []domain.Address
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.Addresses(ctx, userID)
		return err
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, id, userID string) (*domain.Address, error) {
	var addr *domain.Address
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		addr, err = s.owned(ctx, tx, id, userID)
		return err
	})
	return addr, err
}

func (s *Service) Create(ctx context.Context, userID string, fields domain.AddressFields, isDefault bool) (*domain.Address, error) {
	var addr *domain.Address
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		if isDefault {
			if err := tx.ClearDefaultAddress(ctx, userID); err != nil {
				return err
			}
		}
		count, err := tx.CountAddresses(ctx, userID)
		if err != nil {
			return err
		}
		addr = &domain.Address{
			ID:        uuid.NewString(),
			UserID:    userID,
			IsDefault: isDefault || count == 0,
			CreatedAt: s.now(),
		}
		applyFields(addr, fields)
		return tx.InsertAddress(ctx, addr)
	})
	return addr, err
}

func (s *Service) Update(ctx context.Context, id, userID string, fields domain.AddressFields, isDefault *bool) (*domain.Address, error) {
	var addr *domain.Address
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		addr, err = s.owned(ctx, tx, id, userID)
		if err != nil {
			return err
		}

		wantDefault := addr.IsDefault
		if isDefault != nil {
			wantDefault = *isDefault
		}

		if addr.IsDefault && !wantDefault {
			// Unsetting the default: some address must remain default. The
			// only address keeps the flag; otherwise another is promoted.
			count, err := tx.CountAddresses(ctx, userID)
			if err != nil {
				return err
			}
			if count == 1 {
				wantDefault = true
			} else if err := s.promoteAnother(ctx, tx, userID, id); err != nil {
				return err
			}
		}
		if wantDefault && !addr.IsDefault {
			if err := tx.ClearDefaultAddress(ctx, userID); err != nil {
				return err
			}
		}

		applyFields(addr, fields)
		addr.IsDefault = wantDefault
		return tx.UpdateAddress(ctx, addr)
	})
	return addr, err
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.db.InTx(ctx, func(tx storage.Tx) error {
		addr, err := s.owned(ctx, tx, id, userID)
		if err != nil {
			return err
		}

		refs, err := tx.AddressOrderCount(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.Invalidf("address is associated with an order and cannot be deleted")
		}

		if err := tx.DeleteAddress(ctx, id); err != nil {
			return err
		}
		if addr.IsDefault {
			return s.promoteAnother(ctx, tx, userID, id)
		}
		return nil
	})
}

func (s *Service) SetDefault(ctx context.Context, id, userID string) (*domain.Address, error) {
	var addr *domain.Address
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		addr, err = s.owned(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		if err := tx.ClearDefaultAddress(ctx, userID); err != nil {
			return err
		}
		addr.IsDefault = true
		return tx.UpdateAddress(ctx, addr)
	})
	return addr, err
}

func (s *Service) owned(ctx context.Context, tx storage.Tx, id, userID string) (*domain.Address, error) {
	addr, err := tx.Address(ctx, id)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, domain.Invalidf("address does not belong to user")
	}
	return addr, nil
}

// promoteAnother makes the most recent other address the default.
func (s *Service) promoteAnother(ctx context.Context, tx storage.Tx, userID, excludeID string) error {
	all, err := tx.Addresses(ctx, userID)
	if err != nil {
		return err
	}
	var next *domain.Address
	for i := range all {
		if all[i].ID == excludeID {
			continue
		}
		if next == nil || all[i].CreatedAt.After(next.CreatedAt) {
			next = &all[i]
		}
	}
	if next == nil {
		return nil
	}
	if err := tx.ClearDefaultAddress(ctx, userID); err != nil {
		return err
	}
	next.IsDefault = true
	return tx.UpdateAddress(ctx, next)
}

func applyFields(addr *domain.Address, f domain.AddressFields) {
	addr.Name = f.Name
	addr.Email = f.Email
	addr.Phone = f.Phone
	addr.Street = f.Street
	addr.City = f.City
	addr.Country = f.Country
}
