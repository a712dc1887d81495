package services

import (
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a project owned by userID.
func (s *projectService) CreateProject(userID uint, name, description string) (*models.Project, error) {
	name, err := requiredText("name", name)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// GetUserProjects lists the projects owned by userID.
func (s *projectService) GetUserProjects(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Project{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := s.db.Where("user_id = ?", userID).
		Order("id").
		Scopes(pagination.Paginate(page)).
		Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID retrieves a project if it belongs to userID.
func (s *projectService) GetProjectByID(userID, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrProjectNotFound)
	}
	return &project, nil
}

// UpdateProject applies the non-nil fields to an owned project.
func (s *projectService) UpdateProject(userID, projectID uint, name, description *string) (*models.Project, error) {
	project, err := s.GetProjectByID(userID, projectID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		trimmed, err := requiredText("name", *name)
		if err != nil {
			return nil, err
		}
		updates["name"] = trimmed
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) == 0 {
		return project, nil
	}
	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetProjectByID(userID, projectID)
}

// DeleteProject permanently removes an owned project and all of its tasks.
func (s *projectService) DeleteProject(userID, projectID uint) error {
	project, err := s.GetProjectByID(userID, projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
