package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() *Contact {
	return &Contact{
		Name:        "Ada Lovelace",
		Address:     "12 Analytical Way",
		Phones:      []string{"555-0100"},
		LeadSource:  LeadSourceReferral,
		ContactType: ContactTypeResidential,
		Divisions:   []Division{DivisionRenovations},
	}
}

func TestContact_NormalizeDefaults(t *testing.T) {
	c := validContact()
	c.Name = "  Ada  "

	c.Normalize()

	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, ContactCategoryLead, c.ContactCategory)
	assert.NotNil(t, c.Emails)
	assert.NotNil(t, c.ActivityLog)
	require.NoError(t, c.Validate())
}

func TestContact_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Contact)
		field  string
	}{
		{"Missing name", func(c *Contact) { c.Name = "" }, "name"},
		{"Blank address", func(c *Contact) { c.Address = "  " }, "address"},
		{"No phones", func(c *Contact) { c.Phones = nil }, "phones"},
		{"Unknown lead source", func(c *Contact) { c.LeadSource = "Billboard" }, "leadSource"},
		{"Unknown type", func(c *Contact) { c.ContactType = "Government" }, "contactType"},
		{"Unknown category", func(c *Contact) { c.ContactCategory = "Vip" }, "contactCategory"},
		{"No divisions", func(c *Contact) { c.Divisions = []Division{} }, "divisions"},
		{"Unknown division", func(c *Contact) { c.Divisions = []Division{"Roofing"} }, "divisions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContact()
			c.ContactCategory = ContactCategoryLead
			tt.mutate(c)

			err := c.Validate()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestContact_ApplyLeavesNilFields(t *testing.T) {
	c := validContact()
	name := "Ada King"
	divisions := []Division{DivisionRadiance}

	c.Apply(ContactPatch{Name: &name, Divisions: &divisions})

	assert.Equal(t, "Ada King", c.Name)
	assert.Equal(t, "12 Analytical Way", c.Address)
	assert.Equal(t, []Division{DivisionRadiance}, c.Divisions)
}
