package domain

import (
	"slices"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusDemo             ProjectStatus = "Demo"
	ProjectStatusInProgress       ProjectStatus = "In Progress"
	ProjectStatusHung             ProjectStatus = "Hung"
	ProjectStatusCompletedService ProjectStatus = "Completed-Service"
	ProjectStatusCompletedFunded  ProjectStatus = "Completed-Funded"
	ProjectStatusClosed           ProjectStatus = "Closed"
)

var ProjectStatuses = []ProjectStatus{
	ProjectStatusDemo, ProjectStatusInProgress, ProjectStatusHung,
	ProjectStatusCompletedService, ProjectStatusCompletedFunded, ProjectStatusClosed,
}

func (s ProjectStatus) Valid() bool { return slices.Contains(ProjectStatuses, s) }

type ProjectCosts struct {
	Materials  float64 `json:"materials"`
	Labor      float64 `json:"labor"`
	Processing float64 `json:"processing"`
	Misc       float64 `json:"misc"`
}

func (c ProjectCosts) Total() float64 {
	return c.Materials + c.Labor + c.Processing + c.Misc
}

type Project struct {
	ID                  int32           `json:"id"`
	ContactID           int32           `json:"contact"`
	ContractAmount      float64         `json:"contractAmount"`
	AssignedInstallers  []int32         `json:"assignedInstallers"`
	Status              ProjectStatus   `json:"status"`
	InstallStartDate    *time.Time      `json:"installStartDate,omitempty"`
	InstallEndDate      *time.Time      `json:"installEndDate,omitempty"`
	Costs               ProjectCosts    `json:"costs"`
	PriorCreditDeclines int32           `json:"priorCreditDeclines"`
	Notes               []string        `json:"notes"`
	ActivityLog         []ActivityEntry `json:"activityLog"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

type ProjectPatch struct {
	ContractAmount      *float64       `json:"contractAmount"`
	AssignedInstallers  *[]int32       `json:"assignedInstallers"`
	Status              *ProjectStatus `json:"status"`
	InstallStartDate    *time.Time     `json:"installStartDate"`
	InstallEndDate      *time.Time     `json:"installEndDate"`
	Costs               *ProjectCosts  `json:"costs"`
	PriorCreditDeclines *int32         `json:"priorCreditDeclines"`
}

func (p *Project) Apply(patch ProjectPatch) {
	if patch.ContractAmount != nil {
		p.ContractAmount = *patch.ContractAmount
	}
	if patch.AssignedInstallers != nil {
		p.AssignedInstallers = *patch.AssignedInstallers
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.InstallStartDate != nil {
		p.InstallStartDate = patch.InstallStartDate
	}
	if patch.InstallEndDate != nil {
		p.InstallEndDate = patch.InstallEndDate
	}
	if patch.Costs != nil {
		p.Costs = *patch.Costs
	}
	if patch.PriorCreditDeclines != nil {
		p.PriorCreditDeclines = *patch.PriorCreditDeclines
	}
}

func (p *Project) Validate() error {
	if p.ContactID <= 0 {
		return NewValidationError("contact", "is required")
	}
	if p.ContractAmount < 0 {
		return NewValidationError("contractAmount", "must not be negative")
	}
	if p.Status == "" {
		p.Status = ProjectStatusDemo
	}
	if !p.Status.Valid() {
		return NewValidationError("status", "unknown value %q", p.Status)
	}
	if p.InstallStartDate != nil && p.InstallEndDate != nil && p.InstallEndDate.Before(*p.InstallStartDate) {
		return NewValidationError("installEndDate", "must not be before installStartDate")
	}
	if p.PriorCreditDeclines < 0 {
		return NewValidationError("priorCreditDeclines", "must not be negative")
	}
	if p.AssignedInstallers == nil {
		p.AssignedInstallers = []int32{}
	}
	if p.Notes == nil {
		p.Notes = []string{}
	}
	if p.ActivityLog == nil {
		p.ActivityLog = []ActivityEntry{}
	}
	return nil
}
