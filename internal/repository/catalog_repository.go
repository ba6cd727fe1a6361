package repository

import (
	"sparklewash/internal/models"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	GetPackage(id uint) (*models.Package, error)
	GetAddon(id uint) (*models.Addon, error)
	ListActivePackages() ([]models.Package, error)
	ListActiveAddons() ([]models.Addon, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetPackage(id uint) (*models.Package, error) {
	var pkg models.Package
	err := r.db.First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *catalogRepository) GetAddon(id uint) (*models.Addon, error) {
	var addon models.Addon
	err := r.db.First(&addon, id).Error
	if err != nil {
		return nil, err
	}
	return &addon, nil
}

func (r *catalogRepository) ListActivePackages() ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Where("active = ?", true).Find(&pkgs).Error
	return pkgs, err
}

func (r *catalogRepository) ListActiveAddons() ([]models.Addon, error) {
	var addons []models.Addon
	err := r.db.Where("active = ?", true).Find(&addons).Error
	return addons, err
}
