package recommend

// Listing is a marketplace counterpart that can be recommended.
type Listing struct {
	ID     string
	Type   string
	Title  string
	Tags   []string
	Stages []string
}

// Target types.
const (
	TypeFreelancer = "freelancer"
	TypeFunder     = "funder"
	TypeInvestor   = "investor"
	TypeProgramme  = "programme"
	TypeSME        = "sme"
)

// catalogue is the static listing set scored by the built-in functions.
var catalogue = []Listing{
	{ID: "fnd-agri-growth", Type: TypeFunder, Title: "Rural Agri Growth Grant", Tags: []string{"agriculture", "energy"}, Stages: []string{"startup", "growth"}},
	{ID: "fnd-women-fintech", Type: TypeFunder, Title: "Women in Fintech Fund", Tags: []string{"fintech", "education"}, Stages: []string{"idea", "startup"}},
	{ID: "fnd-health-access", Type: TypeFunder, Title: "Health Access Challenge", Tags: []string{"health"}, Stages: []string{"startup", "growth", "established"}},
	{ID: "inv-seed-east", Type: TypeInvestor, Title: "East Seed Partners", Tags: []string{"fintech", "retail", "logistics", "equity"}, Stages: []string{"startup"}},
	{ID: "inv-green-debt", Type: TypeInvestor, Title: "Green Debt Facility", Tags: []string{"energy", "manufacturing", "agriculture", "debt"}, Stages: []string{"growth", "established"}},
	{ID: "inv-health-conv", Type: TypeInvestor, Title: "HealthTech Convertible Notes", Tags: []string{"health", "convertible"}, Stages: []string{"startup", "growth"}},
	{ID: "prg-export-ready", Type: TypeProgramme, Title: "Export Readiness Accelerator", Tags: []string{"manufacturing", "retail", "logistics", "compliance"}, Stages: []string{"growth", "established"}},
	{ID: "prg-digital-basics", Type: TypeProgramme, Title: "Digital Basics Bootcamp", Tags: []string{"software", "marketing", "education"}, Stages: []string{"idea", "startup"}},
	{ID: "fl-cfo-shared", Type: TypeFreelancer, Title: "Fractional CFO", Tags: []string{"finance", "compliance", "fintech"}},
	{ID: "fl-growth-mkt", Type: TypeFreelancer, Title: "Growth Marketer", Tags: []string{"marketing", "retail", "education"}},
	{ID: "fl-legal-ip", Type: TypeFreelancer, Title: "Commercial Lawyer", Tags: []string{"legal", "compliance"}},
	{ID: "fl-fullstack", Type: TypeFreelancer, Title: "Full-stack Developer", Tags: []string{"software", "fintech", "health"}},
	{ID: "fl-ops-lead", Type: TypeFreelancer, Title: "Operations Lead", Tags: []string{"operations", "logistics", "manufacturing"}},
	{ID: "sme-solar-kiosk", Type: TypeSME, Title: "Solar Kiosk Co.", Tags: []string{"energy", "retail", "finance", "operations"}, Stages: []string{"growth"}},
	{ID: "sme-agri-cold", Type: TypeSME, Title: "AgriCold Storage", Tags: []string{"agriculture", "logistics", "legal"}, Stages: []string{"startup"}},
	{ID: "sme-clinic-app", Type: TypeSME, Title: "ClinicBook", Tags: []string{"health", "software", "marketing"}, Stages: []string{"idea", "startup"}},
	{ID: "sme-paylink", Type: TypeSME, Title: "PayLink Micro-payments", Tags: []string{"fintech", "compliance", "software"}, Stages: []string{"startup", "growth"}},
	{ID: "sme-textile-hub", Type: TypeSME, Title: "Textile Hub", Tags: []string{"manufacturing", "retail", "marketing"}, Stages: []string{"established"}},
}
