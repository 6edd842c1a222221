package services

import (
	"moltpedia/models"
	"moltpedia/repositories"
)

type CategoryService interface {
	GetAll() ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(req models.CreateCategoryRequest) (*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) GetAll() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *categoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "category not found"}
	}
	return category, nil
}

func (s *categoryService) Create(req models.CreateCategoryRequest) (*models.Category, error) {
	exists, err := s.categoryRepo.ExistsByNameOrSlug(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrorConflict{Message: "category with this name or slug already exists"}
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}
