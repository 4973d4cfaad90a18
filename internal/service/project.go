package service

import (
	"context"
	"strings"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
)

type projectService struct {
	projectRepo repository.ProjectRepository
	contactRepo repository.ContactRepository
	now         func() time.Time
}

func NewProjectService(projectRepo repository.ProjectRepository, contactRepo repository.ContactRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, contactRepo: contactRepo, now: time.Now}
}

func (s *projectService) CreateProject(ctx context.Context, actor *domain.Principal, p *domain.Project) error {
	p.ID = 0
	p.ActivityLog = nil
	if err := p.Validate(); err != nil {
		return err
	}
	contact, err := s.contactRepo.GetByID(ctx, p.ContactID)
	if err != nil {
		return err
	}
	if err := checkVisible(actor, contact); err != nil {
		return err
	}
	domain.AppendActivity(&p.ActivityLog, actor, domain.ActionCreatedProject, s.now())

	if err := s.projectRepo.Create(ctx, p); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Project created", "project_id", p.ID, "contact_id", p.ContactID)
	return nil
}

func (s *projectService) GetProject(ctx context.Context, id int32) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

func (s *projectService) ListProjects(ctx context.Context, opts repository.ProjectListOptions, p query.Pagination) (query.Page[domain.Project], error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return query.Page[domain.Project]{}, domain.NewValidationError("status", "unknown value %q", opts.Status)
	}
	projects, total, err := s.projectRepo.List(ctx, opts, p)
	if err != nil {
		return query.Page[domain.Project]{}, err
	}
	return query.NewPage(projects, p, total), nil
}

func (s *projectService) UpdateProject(ctx context.Context, actor *domain.Principal, id int32, patch domain.ProjectPatch) (*domain.Project, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	persisted := len(p.ActivityLog)
	p.Apply(patch)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	domain.AppendActivity(&p.ActivityLog, actor, domain.ActionUpdatedProject, s.now())

	if err := s.projectRepo.Update(ctx, p, persisted); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Project updated", "project_id", p.ID, "status", p.Status)
	return p, nil
}

// AddNote appends a free-text note. It counts as an update of the
// project for the activity log.
func (s *projectService) AddNote(ctx context.Context, actor *domain.Principal, id int32, note string) (*domain.Project, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, domain.NewValidationError("note", "must not be empty")
	}
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	persisted := len(p.ActivityLog)
	p.Notes = append(p.Notes, note)
	domain.AppendActivity(&p.ActivityLog, actor, domain.ActionUpdatedProject, s.now())

	if err := s.projectRepo.Update(ctx, p, persisted); err != nil {
		return nil, err
	}
	return p, nil
}
