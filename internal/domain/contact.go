package domain

import (
	"slices"
	"strings"
	"time"
)

type LeadSource string

const (
	LeadSourceAngi     LeadSource = "Angi"
	LeadSourceWebsite  LeadSource = "Website"
	LeadSourceAvira    LeadSource = "Avira"
	LeadSourceFacebook LeadSource = "Facebook"
	LeadSourceHomeShow LeadSource = "Home Show"
	LeadSourceReferral LeadSource = "Referral"
	LeadSourceOther    LeadSource = "Other"
)

var LeadSources = []LeadSource{
	LeadSourceAngi, LeadSourceWebsite, LeadSourceAvira, LeadSourceFacebook,
	LeadSourceHomeShow, LeadSourceReferral, LeadSourceOther,
}

func (s LeadSource) Valid() bool { return slices.Contains(LeadSources, s) }

type ContactType string

const (
	ContactTypeResidential ContactType = "Residential"
	ContactTypeCommercial  ContactType = "Commercial"
	ContactTypeSupplier    ContactType = "Supplier"
)

var ContactTypes = []ContactType{ContactTypeResidential, ContactTypeCommercial, ContactTypeSupplier}

func (t ContactType) Valid() bool { return slices.Contains(ContactTypes, t) }

type ContactCategory string

const (
	ContactCategoryLead             ContactCategory = "Lead"
	ContactCategoryProspect         ContactCategory = "Prospect"
	ContactCategoryCustomer         ContactCategory = "Customer"
	ContactCategoryPreviousCustomer ContactCategory = "Previous Customer"
)

var ContactCategories = []ContactCategory{
	ContactCategoryLead, ContactCategoryProspect, ContactCategoryCustomer, ContactCategoryPreviousCustomer,
}

func (c ContactCategory) Valid() bool { return slices.Contains(ContactCategories, c) }

type Contact struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	Phones          []string        `json:"phones"`
	Emails          []string        `json:"emails"`
	LeadSource      LeadSource      `json:"leadSource"`
	ContactType     ContactType     `json:"contactType"`
	ContactCategory ContactCategory `json:"contactCategory"`
	Divisions       []Division      `json:"divisions"`
	Notes           string          `json:"notes"`
	ActivityLog     []ActivityEntry `json:"activityLog"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ContactPatch carries the fields an update may overwrite; nil fields
// are left as they are.
type ContactPatch struct {
	Name            *string          `json:"name"`
	Address         *string          `json:"address"`
	Phones          *[]string        `json:"phones"`
	Emails          *[]string        `json:"emails"`
	LeadSource      *LeadSource      `json:"leadSource"`
	ContactType     *ContactType     `json:"contactType"`
	ContactCategory *ContactCategory `json:"contactCategory"`
	Divisions       *[]Division      `json:"divisions"`
	Notes           *string          `json:"notes"`
}

func (c *Contact) Apply(p ContactPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Phones != nil {
		c.Phones = *p.Phones
	}
	if p.Emails != nil {
		c.Emails = *p.Emails
	}
	if p.LeadSource != nil {
		c.LeadSource = *p.LeadSource
	}
	if p.ContactType != nil {
		c.ContactType = *p.ContactType
	}
	if p.ContactCategory != nil {
		c.ContactCategory = *p.ContactCategory
	}
	if p.Divisions != nil {
		c.Divisions = *p.Divisions
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
}

// Normalize trims text fields and fills the category default.
func (c *Contact) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.ContactCategory == "" {
		c.ContactCategory = ContactCategoryLead
	}
	if c.Emails == nil {
		c.Emails = []string{}
	}
	if c.ActivityLog == nil {
		c.ActivityLog = []ActivityEntry{}
	}
}

// Validate checks the invariants a contact must hold before it is saved.
func (c *Contact) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		return NewValidationError("address", "is required")
	}
	if len(c.Phones) == 0 {
		return NewValidationError("phones", "must contain at least one number")
	}
	if !c.LeadSource.Valid() {
		return NewValidationError("leadSource", "unknown value %q", c.LeadSource)
	}
	if !c.ContactType.Valid() {
		return NewValidationError("contactType", "unknown value %q", c.ContactType)
	}
	if !c.ContactCategory.Valid() {
		return NewValidationError("contactCategory", "unknown value %q", c.ContactCategory)
	}
	if len(c.Divisions) == 0 {
		return NewValidationError("divisions", "must not be empty")
	}
	divisions, err := normalizeDivisions(c.Divisions)
	if err != nil {
		return NewValidationError("divisions", "%v", err)
	}
	c.Divisions = divisions
	return nil
}
