package company

import "github.com/reqline/reqline/internal/models"

// Lists seeded for every newly created company. Companies tune them later
// through the configuration reconciler; seeds are plain active rows with no
// special status.
var (
	DefaultWorkerTypes        = []string{"Employee", "Contractor", "Intern", "Consultant"}
	DefaultWorkerSubTypes     = []string{"Full Time", "Part Time", "Temporary", "Contract"}
	DefaultRequisitionReasons = []string{"Backfill", "New Position", "Replacement", "Reorganisation", "Growth"}
	DefaultLocations          = []string{"Remote", "Onsite", "Hybrid"}
	DefaultOffices            = []string{"London"}
	DefaultJobLevels          = []string{"Junior", "Mid", "Senior", "Lead", "Principal"}
)

var defaultsByCategory = map[models.ConfigCategory][]string{
	models.CategoryWorkerTypes:    DefaultWorkerTypes,
	models.CategoryWorkerSubTypes: DefaultWorkerSubTypes,
	models.CategoryReasons:        DefaultRequisitionReasons,
	models.CategoryLocations:      DefaultLocations,
	models.CategoryOffices:        DefaultOffices,
	models.CategoryJobLevels:      DefaultJobLevels,
}

// configTables maps a category onto its table. The set is closed; table names
// are never taken from request input.
var configTables = map[models.ConfigCategory]string{
	models.CategoryLocations:      "company_locations",
	models.CategoryWorkerTypes:    "company_worker_types",
	models.CategoryWorkerSubTypes: "company_worker_sub_types",
	models.CategoryReasons:        "company_requisition_reasons",
	models.CategoryOffices:        "company_offices",
	models.CategoryJobLevels:      "company_job_levels",
}
