package services

import (
	"fmt"
	"strings"

	"marketplace/entity"
	"marketplace/repository"
)

// CatalogService manages the list of services artisans can offer.
type CatalogService struct {
	repo *repository.ServiceRepository
}

func NewCatalogService(repo *repository.ServiceRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type ServiceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *CatalogService) List(q string) ([]entity.Service, error) {
	return s.repo.FindAll(strings.TrimSpace(q))
}

func (s *CatalogService) Get(id uint) (*entity.Service, error) {
	svc, err := s.repo.FindByID(id)
	return svc, notFound(err)
}

func (s *CatalogService) Create(in ServiceInput) (*entity.Service, error) {
	svc := &entity.Service{}
	if in.Name != nil {
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(svc.Name, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Update(id uint, in ServiceInput) (*entity.Service, error) {
	svc, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if in.Name != nil {
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(svc.Name, svc.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Delete(id uint) error {
	n, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) ensureUniqueName(name string, excludeID uint) error {
	count, err := s.repo.CountByName(name, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: service %q already exists", ErrConflict, name)
	}
	return nil
}
