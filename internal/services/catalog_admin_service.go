package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/imaging"
	"jamaahmart/internal/repos"
	"jamaahmart/internal/validate"
)

var ErrInvalidItem = errors.New("invalid catalog item")

type CatalogItemInput struct {
	ID          string `validate:"omitempty,itemid"`
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
	Price       int64  `validate:"gte=0"`
	Stock       int    `validate:"gte=0"`
	Category    string `validate:"required,oneof=equipment souvenir food other"`
	Status      string `validate:"required,oneof=active inactive"`
}

// CatalogAdminService is the small write side the admin screens need.
// Every write drops the cached active list.
type CatalogAdminService struct {
	Items   *repos.CatalogRepo
	Stock   *InventoryService
	Catalog *CatalogService
	Photos  ProofProcessor
	Now     func() time.Time

	check *validator.Validate
}

func NewCatalogAdminService(items *repos.CatalogRepo, stock *InventoryService, catalog *CatalogService, photos ProofProcessor) *CatalogAdminService {
	v := validator.New()
	_ = v.RegisterValidation("itemid", func(fl validator.FieldLevel) bool {
		_, ok := validate.ID(fl.Field().String())
		return ok
	})
	return &CatalogAdminService{
		Items:   items,
		Stock:   stock,
		Catalog: catalog,
		Photos:  photos,
		Now:     time.Now,
		check:   v,
	}
}

// Save creates or updates an item. A nil photo keeps the current image.
func (s *CatalogAdminService) Save(ctx context.Context, in CatalogItemInput, photo *imaging.Upload) (domain.CatalogItem, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check.Struct(in); err != nil {
		return domain.CatalogItem{}, fieldError(err)
	}

	now := s.Now()
	it := domain.CatalogItem{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    domain.Category(in.Category),
		Status:      domain.ItemStatus(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	} else if prev, err := s.Items.Get(ctx, it.ID); err == nil {
		it.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, repos.ErrNotFound) {
		return domain.CatalogItem{}, err
	}

	if photo != nil && photo.Size > 0 {
		ev, err := s.Photos.Process(ctx, photo)
		if err != nil {
			return domain.CatalogItem{}, err
		}
		it.Image = ev.DataURL
	}

	if err := s.Items.Upsert(ctx, it); err != nil {
		return domain.CatalogItem{}, err
	}
	s.Catalog.Invalidate(ctx)
	return s.Items.Get(ctx, it.ID)
}

func (s *CatalogAdminService) SetStock(ctx context.Context, itemID string, qty int) error {
	if err := s.Stock.SetStock(ctx, itemID, qty, s.Now()); err != nil {
		return err
	}
	s.Catalog.Invalidate(ctx)
	return nil
}

func fieldError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	fe := ve[0]
	return fmt.Errorf("%w: %s failed %s", ErrInvalidItem, strings.ToLower(fe.Field()), fe.Tag())
}
