package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
	"carmarket/internal/repository"
	"carmarket/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListingInput carries the listing form fields for create and edit.
type ListingInput struct {
	BrandID      uint
	ModelID      uint
	Year         int
	BodyType     model.BodyType
	FuelType     model.FuelType
	EngineVolume decimal.Decimal
	EnginePower  int
	Transmission model.Transmission
	DriveType    model.DriveType
	Mileage      int
	Condition    model.Condition
	Price        decimal.Decimal
	IsNegotiable bool
	Color        string
	VIN          string
	LicensePlate string
	Description  string
	Location     string
	ContactPhone string
	Status       model.ListingStatus
	FeatureIDs   []uint
}

// ImageUpload pairs an uploaded file with its main flag.
type ImageUpload struct {
	File   *multipart.FileHeader
	IsMain bool
}

// CarService handles the listing lifecycle: submit, edit, delete, browse,
// search, images and view recording.
type CarService interface {
	Submit(ctx context.Context, ownerID uint, input ListingInput) (*model.Car, error)
	Edit(ctx context.Context, carID, ownerID uint, input ListingInput) (*model.Car, error)
	Delete(ctx context.Context, carID, ownerID uint) error
	Get(ctx context.Context, carID uint) (*model.Car, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error)
	Search(ctx context.Context, criteria repository.SearchCriteria, page, perPage int) ([]model.Car, error)
	AttachImages(ctx context.Context, carID, ownerID uint, uploads []ImageUpload) ([]model.CarImage, error)
	RecordView(ctx context.Context, carID uint, viewerID *uint, ip string)
}

type carService struct {
	carRepo     repository.CarRepository
	catalogRepo repository.CatalogRepository
	imageRepo   repository.ImageRepository
	viewRepo    repository.ViewRepository
	images      *storage.ImageStore
	minYear     int
}

// NewCarService creates a new listing service. minYear is the lower bound of
// the plausible model-year range; the upper bound is next calendar year.
func NewCarService(
	carRepo repository.CarRepository,
	catalogRepo repository.CatalogRepository,
	imageRepo repository.ImageRepository,
	viewRepo repository.ViewRepository,
	images *storage.ImageStore,
	minYear int,
) CarService {
	return &carService{
		carRepo:     carRepo,
		catalogRepo: catalogRepo,
		imageRepo:   imageRepo,
		viewRepo:    viewRepo,
		images:      images,
		minYear:     minYear,
	}
}

// Submit validates and persists a new listing together with its feature set.
func (s *carService) Submit(ctx context.Context, ownerID uint, input ListingInput) (*model.Car, error) {
	if input.Status == "" {
		input.Status = model.StatusActive
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	car := &model.Car{OwnerID: ownerID}
	applyInput(car, input)

	if err := s.carRepo.Create(ctx, car, dedupe(input.FeatureIDs)); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return s.Get(ctx, car.ID)
}

// Edit validates and saves changes to an owned listing, replacing its
// feature set to exactly match the submitted ids.
func (s *carService) Edit(ctx context.Context, carID, ownerID uint, input ListingInput) (*model.Car, error) {
	car, err := s.findOwned(ctx, carID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = car.Status
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	applyInput(car, input)
	car.Brand = model.Brand{}
	car.Model = model.CarModel{}
	car.Features = nil

	if err := s.carRepo.Update(ctx, car, dedupe(input.FeatureIDs)); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return s.Get(ctx, car.ID)
}

// Delete removes an owned listing and everything it owns: images on disk,
// image rows, feature relations and view records.
func (s *carService) Delete(ctx context.Context, carID, ownerID uint) error {
	car, err := s.findOwned(ctx, carID, ownerID)
	if err != nil {
		return err
	}

	if err := s.carRepo.DeleteCascade(ctx, carID); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	for _, img := range car.Images {
		if err := s.images.Remove(img.Path); err != nil {
			log.Printf("remove image file %s: %v", img.Path, err)
		}
	}
	return nil
}

func (s *carService) Get(ctx context.Context, carID uint) (*model.Car, error) {
	car, err := s.carRepo.FindByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCarNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return car, nil
}

func (s *carService) ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error) {
	cars, err := s.carRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return cars, nil
}

// Search runs a filtered browse, newest first. A model filter inconsistent
// with the brand filter is dropped rather than rejected; browsing should not
// error on a stale form selection.
func (s *carService) Search(ctx context.Context, criteria repository.SearchCriteria, page, perPage int) ([]model.Car, error) {
	if criteria.Status == "" {
		criteria.Status = model.StatusActive
	}
	if criteria.ModelID != 0 && criteria.BrandID != 0 {
		carModel, err := s.catalogRepo.FindModel(ctx, criteria.ModelID)
		if err != nil || carModel.BrandID != criteria.BrandID {
			criteria.ModelID = 0
		}
	}

	if perPage <= 0 || perPage > maxPageSize {
		perPage = defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	cars, err := s.carRepo.Search(ctx, criteria, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return cars, nil
}

// AttachImages stores up to MaxImagesPerCar images for an owned listing.
// More than one image may be flagged main; the read side resolves that.
func (s *carService) AttachImages(ctx context.Context, carID, ownerID uint, uploads []ImageUpload) ([]model.CarImage, error) {
	if _, err := s.findOwned(ctx, carID, ownerID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, nil
	}

	existing, err := s.imageRepo.CountByCar(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}
	if int(existing)+len(uploads) > model.MaxImagesPerCar {
		return nil, apperr.ErrTooManyImages
	}

	saved := make([]model.CarImage, 0, len(uploads))
	for _, upload := range uploads {
		name, err := s.images.Save(upload.File)
		if err != nil {
			s.removeFiles(saved)
			return nil, fmt.Errorf("store image: %w", err)
		}
		saved = append(saved, model.CarImage{CarID: carID, Path: name, IsMain: upload.IsMain})
	}

	if err := s.imageRepo.CreateBatch(ctx, saved); err != nil {
		s.removeFiles(saved)
		return nil, fmt.Errorf("save images: %w", err)
	}
	return saved, nil
}

// RecordView appends a view record and bumps the listing counter. Anonymous
// viewers count too. Best-effort: failures are logged, never surfaced.
func (s *carService) RecordView(ctx context.Context, carID uint, viewerID *uint, ip string) {
	view := &model.CarView{CarID: carID, UserID: viewerID, IPAddress: ip}
	if err := s.viewRepo.Create(ctx, view); err != nil {
		log.Printf("record view for listing %d: %v", carID, err)
		return
	}
	if err := s.carRepo.IncrementViews(ctx, carID); err != nil {
		log.Printf("increment views for listing %d: %v", carID, err)
	}
}

func (s *carService) findOwned(ctx context.Context, carID, ownerID uint) (*model.Car, error) {
	car, err := s.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, apperr.ErrNotOwner
	}
	return car, nil
}

// validateInput collects field-level errors first, then checks the selected
// brand/model/features against the catalog. The model must belong to the
// selected brand; a mismatched pair is never persisted.
func (s *carService) validateInput(ctx context.Context, input ListingInput) error {
	verr := apperr.NewValidation()

	maxYear := time.Now().Year() + 1
	if input.Year < s.minYear || input.Year > maxYear {
		verr.Add("year", fmt.Sprintf("year must be between %d and %d", s.minYear, maxYear))
	}
	if input.EngineVolume.IsNegative() {
		verr.Add("engine_volume", "engine volume must not be negative")
	}
	if input.EnginePower < 0 {
		verr.Add("engine_power", "engine power must not be negative")
	}
	if input.Mileage < 0 {
		verr.Add("mileage", "mileage must not be negative")
	}
	if input.Price.IsNegative() {
		verr.Add("price", "price must not be negative")
	}
	if !input.BodyType.Valid() {
		verr.Add("body_type", "unknown body type")
	}
	if !input.FuelType.Valid() {
		verr.Add("fuel_type", "unknown fuel type")
	}
	if !input.Transmission.Valid() {
		verr.Add("transmission", "unknown transmission")
	}
	if !input.DriveType.Valid() {
		verr.Add("drive_type", "unknown drive type")
	}
	if !input.Condition.Valid() {
		verr.Add("condition", "unknown condition")
	}
	if !input.Status.Valid() {
		verr.Add("status", "unknown status")
	}
	if !model.ValidPhone(input.ContactPhone) {
		verr.Add("contact_phone", "phone number must match +999999999, 9 to 15 digits")
	}
	if verr.HasErrors() {
		return verr
	}

	if _, err := s.catalogRepo.FindBrand(ctx, input.BrandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrBrandNotFound
		}
		return fmt.Errorf("find brand: %w", err)
	}
	carModel, err := s.catalogRepo.FindModel(ctx, input.ModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrModelNotFound
		}
		return fmt.Errorf("find model: %w", err)
	}
	if carModel.BrandID != input.BrandID {
		return apperr.ErrModelBrandMismatch
	}

	featureIDs := dedupe(input.FeatureIDs)
	if len(featureIDs) > 0 {
		features, err := s.catalogRepo.FindFeaturesByIDs(ctx, featureIDs)
		if err != nil {
			return fmt.Errorf("find features: %w", err)
		}
		if len(features) != len(featureIDs) {
			return apperr.ErrFeatureNotFound
		}
	}
	return nil
}

func (s *carService) removeFiles(images []model.CarImage) {
	for _, img := range images {
		if err := s.images.Remove(img.Path); err != nil {
			log.Printf("remove image file %s: %v", img.Path, err)
		}
	}
}

func applyInput(car *model.Car, input ListingInput) {
	car.BrandID = input.BrandID
	car.ModelID = input.ModelID
	car.Year = input.Year
	car.BodyType = input.BodyType
	car.FuelType = input.FuelType
	car.EngineVolume = input.EngineVolume
	car.EnginePower = input.EnginePower
	car.Transmission = input.Transmission
	car.DriveType = input.DriveType
	car.Mileage = input.Mileage
	car.Condition = input.Condition
	car.Price = input.Price
	car.IsNegotiable = input.IsNegotiable
	car.Color = input.Color
	car.VIN = input.VIN
	car.LicensePlate = input.LicensePlate
	car.Description = input.Description
	car.Location = input.Location
	car.ContactPhone = input.ContactPhone
	car.Status = input.Status
}

func dedupe(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
