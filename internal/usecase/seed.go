package usecase

import (
	"time"

	"github.com/xavierca1/hecms/internal/entity"
)

const day = 24 * time.Hour

// DemoLeads returns the sample pipeline used to populate an empty install.
// Ids are left empty.
func DemoLeads(now time.Time) []entity.Lead {
	date := func(daysAgo int) string {
		return now.Add(-time.Duration(daysAgo) * day).Format(entity.DateLayout)
	}
	return []entity.Lead{
		{
			FirstName: "Alex", LastName: "Rivera", Email: "alex@example.com", Phone: "412-555-0101",
			Address: "123 Forbes Ave, Pittsburgh, PA", Program: "MS in Health Informatics", Birthdate: "1998-04-12",
			Stage: entity.StageLead, Temperature: entity.TemperatureWarm, CreatedAt: date(0),
			Notes: "Requested brochure. Source: Paid Social (Meta).",
		},
		{
			FirstName: "Brianna", LastName: "Ng", Email: "bri.ng@example.com", Phone: "412-555-0112",
			Address: "77 Fifth Ave, Pittsburgh, PA", Program: "RN to BSN (Online)", Birthdate: "1995-09-20",
			Stage: entity.StageApplied, Temperature: entity.TemperatureHot, CreatedAt: date(3),
			Notes: "Nurse, 4 yrs exp. UTM: google/cpc/brand.",
		},
		{
			FirstName: "Chris", LastName: "O'Neil", Email: "chris.oneil@example.com", Phone: "412-555-0123",
			Address: "9 Grant St, Pittsburgh, PA", Program: "Hybrid DPT", Birthdate: "1999-01-03",
			Stage: entity.StageInterested, Temperature: entity.TemperatureCold, CreatedAt: date(8),
			Notes: "Came from referral. Opened 2 emails.",
		},
		{
			FirstName: "Dana", LastName: "Khan", Email: "dana.khan@example.com", Phone: "412-555-0140",
			Address: "45 Walnut St, Pittsburgh, PA", Program: "MBA Online", Birthdate: "1993-07-30",
			Stage: entity.StageAccepted, Temperature: entity.TemperatureWarm, CreatedAt: date(15),
			Notes: "Scholarship pending.",
		},
		{
			FirstName: "Evan", LastName: "Lee", Email: "evan.lee@example.com", Phone: "412-555-0199",
			Address: "5 Liberty Ave, Pittsburgh, PA", Program: "MS in Data Science", Birthdate: "2000-11-05",
			Stage: entity.StageMatriculated, Temperature: entity.TemperatureHot, CreatedAt: date(30),
			Notes: "Orientation complete.",
		},
	}
}
