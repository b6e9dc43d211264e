package posting

// Raw is one job posting row as read from a dataset file. Fields hold the
// source text untouched apart from sentinel handling; every derived value
// lives on Normalized instead.
type Raw struct {
	Index        int
	Title        string
	SalaryText   string
	Description  string
	Company      string
	Location     string
	Headquarters string
	SizeText     string
	Founded      *int
	Rating       *float64
	Ownership    string
	Industry     string
	Sector       string
	RevenueText  string
}

// Normalized is the terminal per-posting artifact: parsed salary bounds,
// band representatives, split locations, skill tags, and title classes.
// Nullable fields stay nil through parsing and are filled by the imputer.
type Normalized struct {
	ID              string
	Index           int
	Title           string
	Role            Role
	Seniority       Seniority
	MinSalary       *float64
	MaxSalary       *float64
	EstSalary       *float64
	Rating          *float64
	Founded         *int
	YearsFounded    *float64
	MaxEmployeeSize *float64
	MaxRevenueUSD   *float64
	City            string
	State           *string
	HQCity          string
	HQState         *string
	Ownership       *string
	Industry        *string
	Sector          *string
	SizeText        *string
	SkillTags       []string
	ContentHash     string
}

// Role is the closed set of job-title role categories.
type Role string

const (
	RoleBusinessAnalyst Role = "business_analyst"
	RoleDataScientist   Role = "data_scientist"
	RoleDataEngineer    Role = "data_engineer"
	RoleDataAnalyst     Role = "data_analyst"
	RoleAnalyst         Role = "analyst"
	RoleMLE             Role = "mle"
	RoleConsultant      Role = "consultant"
	RoleEngineer        Role = "engineer"
	RoleManager         Role = "manager"
	RoleDirector        Role = "director"
	RoleOtherScientist  Role = "other_scientist"
	RoleOther           Role = "other"
)

type Seniority string

const (
	SenioritySenior      Seniority = "senior"
	SeniorityJunior      Seniority = "junior"
	SeniorityUnspecified Seniority = "unspecified"
)

// Stats summarizes one processing run over a dataset.
type Stats struct {
	Total         int
	Duplicates    int
	MissingSalary int
	Hourly        int
	Kept          int
}
