package service

import (
	"context"
	"strings"

	"hotelbooking/internal/access"
	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
)

type CustomerService struct {
	repo   domain.CustomerRepository
	cfg    config.BookingConfig
	logger *zerolog.Logger
}

func NewCustomerService(repo domain.CustomerRepository, cfg config.BookingConfig, logger *zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, cfg: cfg, logger: orNop(logger)}
}

func (s *CustomerService) GetCustomer(ctx context.Context, actor models.Actor, id int64) (*models.Customer, error) {
	if err := access.Check(access.ViewCustomer, actor, id); err != nil {
		return nil, err
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context, actor models.Actor, filter models.CustomerFilter) (*models.Page[*models.Customer], error) {
	if err := access.Check(access.ListCustomers, actor, 0); err != nil {
		return nil, err
	}
	filter.Pagination = filter.Pagination.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)

	items, total, err := s.repo.ListCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Customer{}
	}
	return &models.Page[*models.Customer]{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// UpdateCustomer applies the fields present in patch. Email and password are not editable here.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor models.Actor, id int64, patch models.CustomerPatch) (*models.Customer, error) {
	if err := access.Check(access.UpdateCustomer, actor, id); err != nil {
		return nil, err
	}
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName.Set {
		name := strings.TrimSpace(patch.FullName.Value)
		if name == "" {
			return nil, domain.Validation("fullName cannot be empty")
		}
		c.FullName = name
	}
	c.Phone = strings.TrimSpace(patch.Phone.Or(c.Phone))
	c.Address = strings.TrimSpace(patch.Address.Or(c.Address))

	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, actor models.Actor, id int64) error {
	if err := access.Check(access.DeleteCustomer, actor, 0); err != nil {
		return err
	}
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("customer_id", id).Int64("actor_id", actor.ID).Msg("customer deleted")
	return nil
}
