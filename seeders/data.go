package seeders

type departmentSeed struct {
	Name        string
	Manager     string
	Email       string
	Phone       string
	Description string
	Budget      float64
	Employees   int
}

type equipmentSeed struct {
	Name              string
	Manufacturer      string
	Model             string
	SerialNumber      string
	TagNumber         string
	CountryOfOrigin   string
	YearOfManufacture int
	Department        string // пусто - без отдела
	Status            string
	PurchaseCost      float64
	WarrantyDays      int // от момента сидирования; отрицательное - гарантия истекла
	InstalledYearsAgo int
	ServiceContract   bool
	Specifications    [][2]string
}

type maintenanceSeed struct {
	TagNumber   string
	Type        string
	Status      string
	Priority    string
	DaysFromNow int
	Technician  string
	Cost        float64
	Notes       []string
	Parts       []partSeed
	Checklist   []string
}

type partSeed struct {
	Name     string
	Number   string
	Quantity int
	Cost     float64
	Supplier string
}

var departmentsData = []departmentSeed{
	{Name: "Radiology", Manager: "Dr. Karimova", Email: "radiology@hospital.local", Phone: "+992000000101", Description: "Diagnostic imaging", Budget: 250000, Employees: 18},
	{Name: "Intensive Care Unit", Manager: "Dr. Rahimov", Email: "icu@hospital.local", Phone: "+992000000102", Description: "Critical care", Budget: 180000, Employees: 32},
	{Name: "Cardiology", Manager: "Dr. Nazarova", Email: "cardio@hospital.local", Phone: "+992000000103", Description: "Heart diagnostics and treatment", Budget: 120000, Employees: 14},
	{Name: "Laboratory", Manager: "S. Umarov", Email: "lab@hospital.local", Phone: "+992000000104", Description: "Clinical laboratory", Budget: 90000, Employees: 11},
}

var equipmentData = []equipmentSeed{
	{
		Name: "MRI Scanner", Manufacturer: "Siemens", Model: "Magnetom Sola", SerialNumber: "SN-MRI-0001", TagNumber: "RAD-001",
		CountryOfOrigin: "Germany", YearOfManufacture: 2019, Department: "Radiology", Status: "operational",
		PurchaseCost: 1250000, WarrantyDays: 400, InstalledYearsAgo: 5, ServiceContract: true,
		Specifications: [][2]string{{"Field strength", "1.5T"}, {"Bore", "70 cm"}},
	},
	{
		Name: "CT Scanner", Manufacturer: "GE Healthcare", Model: "Revolution EVO", SerialNumber: "SN-CT-0002", TagNumber: "RAD-002",
		CountryOfOrigin: "USA", YearOfManufacture: 2017, Department: "Radiology", Status: "maintenance",
		PurchaseCost: 780000, WarrantyDays: 20, InstalledYearsAgo: 7, ServiceContract: true,
		Specifications: [][2]string{{"Slices", "128"}},
	},
	{
		Name: "Ventilator", Manufacturer: "Dräger", Model: "Evita V500", SerialNumber: "SN-VEN-0003", TagNumber: "ICU-001",
		CountryOfOrigin: "Germany", YearOfManufacture: 2020, Department: "Intensive Care Unit", Status: "operational",
		PurchaseCost: 42000, WarrantyDays: 75, InstalledYearsAgo: 4,
		Specifications: [][2]string{{"Modes", "VC, PC, SIMV"}, {"Power", "220V"}},
	},
	{
		Name: "Patient Monitor", Manufacturer: "Philips", Model: "IntelliVue MX450", SerialNumber: "SN-PM-0004", TagNumber: "ICU-002",
		CountryOfOrigin: "Netherlands", YearOfManufacture: 2018, Department: "Intensive Care Unit", Status: "broken",
		PurchaseCost: 9500, WarrantyDays: -120, InstalledYearsAgo: 6,
	},
	{
		Name: "ECG Machine", Manufacturer: "Schiller", Model: "Cardiovit AT-102", SerialNumber: "SN-ECG-0005", TagNumber: "CAR-001",
		CountryOfOrigin: "Switzerland", YearOfManufacture: 2021, Department: "Cardiology", Status: "operational",
		PurchaseCost: 6800, WarrantyDays: 600, InstalledYearsAgo: 2,
	},
	{
		Name: "Hematology Analyzer", Manufacturer: "Sysmex", Model: "XN-550", SerialNumber: "SN-HEM-0006", TagNumber: "LAB-001",
		CountryOfOrigin: "Japan", YearOfManufacture: 2016, Department: "", Status: "operational",
		PurchaseCost: 56000, WarrantyDays: -400, InstalledYearsAgo: 8,
	},
	{
		Name: "Defibrillator", Manufacturer: "Zoll", Model: "R Series", SerialNumber: "SN-DEF-0007", TagNumber: "GEN-001",
		CountryOfOrigin: "USA", YearOfManufacture: 2015, Department: "", Status: "retired",
		PurchaseCost: 15000, InstalledYearsAgo: 9,
	},
}

var maintenanceData = []maintenanceSeed{
	{
		TagNumber: "RAD-002", Type: "corrective", Status: "in_progress", Priority: "high", DaysFromNow: -2,
		Technician: "A. Saidov", Cost: 3200,
		Notes: []string{"Gantry rotation error E-214", "Replacement tube ordered"},
		Parts: []partSeed{{Name: "X-ray tube", Number: "GE-XT-98", Quantity: 1, Cost: 2900, Supplier: "GE Service"}},
	},
	{TagNumber: "RAD-001", Type: "preventive", Status: "scheduled", Priority: "medium", DaysFromNow: 10, Technician: "A. Saidov"},
	{
		TagNumber: "ICU-001", Type: "calibration", Status: "scheduled", Priority: "high", DaysFromNow: 3,
		Technician: "M. Ismoilov",
		Checklist:  []string{"Check alarm limits", "Verify SpO2 against simulator", "Inspect power cord"},
	},
	{
		TagNumber: "ICU-002", Type: "corrective", Status: "completed", Priority: "high", DaysFromNow: -30,
		Technician: "M. Ismoilov", Cost: 450,
		Parts: []partSeed{{Name: "SpO2 sensor", Number: "PH-M1191", Quantity: 2, Cost: 180, Supplier: "Philips"}},
	},
	{TagNumber: "LAB-001", Type: "preventive", Status: "scheduled", Priority: "low", DaysFromNow: 45},
}

type requestSeed struct {
	TagNumber   string
	RequestedBy string
	Priority    string
	Status      string
	DaysFromNow int
	Description string
}

var requestData = []requestSeed{
	{TagNumber: "LAB-001", RequestedBy: "Laboratory", Priority: "medium", Status: "pending", DaysFromNow: -1, Description: "Analyzer reports aspiration errors"},
	{TagNumber: "RAD-002", RequestedBy: "Radiology", Priority: "high", Status: "approved", DaysFromNow: -3, Description: "Gantry stops mid-scan"},
}
