package services

import (
	"strings"

	"zanovi/internal/domain"
	"zanovi/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListProducts() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) Search(query string, limit int) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Product{}, nil
	}
	return s.Prods.Search(query, limit)
}

func (s *CatalogService) CreateProduct(p domain.Product) (string, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.EANCode = strings.TrimSpace(p.EANCode)
	return s.Prods.Create(p)
}

func (s *CatalogService) UpdateProduct(p domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.EANCode = strings.TrimSpace(p.EANCode)
	return s.Prods.Update(p)
}

func (s *CatalogService) UpdateEAN(id, eanCode string) error {
	return s.Prods.UpdateEAN(id, strings.TrimSpace(eanCode))
}

func (s *CatalogService) DeleteProduct(id string) error {
	return s.Prods.Delete(id)
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) AddCategory(name string) (string, error) {
	return s.Cats.Add(strings.TrimSpace(name))
}

func (s *CatalogService) DeleteCategory(name string) error {
	return s.Cats.Delete(name)
}

func (s *CatalogService) Subcategories(categoryName string) ([]domain.SubCategory, error) {
	return s.Cats.Subcategories(categoryName)
}

func (s *CatalogService) AddSubcategory(categoryName, subName string) (string, error) {
	return s.Cats.AddSubcategory(categoryName, strings.TrimSpace(subName))
}

func (s *CatalogService) DeleteSubcategory(categoryName, subName string) error {
	return s.Cats.DeleteSubcategory(categoryName, subName)
}
