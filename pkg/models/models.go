package models

import "time"

// Attachment is a file reference hung off another record: installation and
// visit photos, visit attachments and contract documents.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Description string `json:"description,omitempty"`
	UploadDate  string `json:"uploadDate"`
	BlobKey     string `json:"blobKey,omitempty"`
}

func (a Attachment) Key() string { return a.ID }

type Device struct {
	ID                   string         `json:"id"`
	DeviceID             string         `json:"deviceId" validate:"required,deviceid"`
	Type                 string         `json:"type" validate:"required"`
	Model                string         `json:"model" validate:"required,max=100"`
	SerialNumber         string         `json:"serialNumber" validate:"required,alphanum"`
	FacilityID           string         `json:"facilityId" validate:"required"`
	FacilityName         string         `json:"facilityName"`
	Status               DeviceStatus   `json:"status" validate:"omitempty,oneof=Online Offline Maintenance"`
	BatteryLevel         int            `json:"batteryLevel" validate:"min=0,max=100"`
	LastServiceDate      *string        `json:"lastServiceDate,omitempty" validate:"omitempty,isodate"`
	LastInstallationDate *string        `json:"lastInstallationDate,omitempty" validate:"omitempty,isodate"`
	AMCStatus            ContractStatus `json:"amcStatus,omitempty"`
	CMCStatus            ContractStatus `json:"cmcStatus,omitempty"`
	Location             string         `json:"location" validate:"required"`
	Manufacturer         string         `json:"manufacturer" validate:"required"`
	PurchaseDate         *string        `json:"purchaseDate,omitempty" validate:"omitempty,isodate"`
	WarrantyExpiry       *string        `json:"warrantyExpiry,omitempty" validate:"omitempty,isodate"`
	Notes                string         `json:"notes,omitempty"`
	CreatedAt            string         `json:"createdAt,omitempty"`
	UpdatedAt            string         `json:"updatedAt,omitempty"`
}

func (d Device) Key() string { return d.ID }

type ChecklistItem string

const (
	ChecklistUnboxingPhotos   ChecklistItem = "unboxingPhotos"
	ChecklistDeviceInspection ChecklistItem = "deviceInspection"
	ChecklistPowerConnection  ChecklistItem = "powerConnection"
	ChecklistNetworkSetup     ChecklistItem = "networkSetup"
	ChecklistCalibration      ChecklistItem = "calibration"
	ChecklistUserTraining     ChecklistItem = "userTraining"
	ChecklistDocumentation    ChecklistItem = "documentation"
	ChecklistFinalTesting     ChecklistItem = "finalTesting"
)

// ChecklistItems lists the steps in the order they are shown to engineers.
var ChecklistItems = []ChecklistItem{
	ChecklistUnboxingPhotos,
	ChecklistDeviceInspection,
	ChecklistPowerConnection,
	ChecklistNetworkSetup,
	ChecklistCalibration,
	ChecklistUserTraining,
	ChecklistDocumentation,
	ChecklistFinalTesting,
}

type Checklist struct {
	UnboxingPhotos   bool `json:"unboxingPhotos"`
	DeviceInspection bool `json:"deviceInspection"`
	PowerConnection  bool `json:"powerConnection"`
	NetworkSetup     bool `json:"networkSetup"`
	Calibration      bool `json:"calibration"`
	UserTraining     bool `json:"userTraining"`
	Documentation    bool `json:"documentation"`
	FinalTesting     bool `json:"finalTesting"`
}

func (c *Checklist) field(item ChecklistItem) *bool {
	switch item {
	case ChecklistUnboxingPhotos:
		return &c.UnboxingPhotos
	case ChecklistDeviceInspection:
		return &c.DeviceInspection
	case ChecklistPowerConnection:
		return &c.PowerConnection
	case ChecklistNetworkSetup:
		return &c.NetworkSetup
	case ChecklistCalibration:
		return &c.Calibration
	case ChecklistUserTraining:
		return &c.UserTraining
	case ChecklistDocumentation:
		return &c.Documentation
	case ChecklistFinalTesting:
		return &c.FinalTesting
	}
	return nil
}

// With returns a copy of the checklist with item set to value; ok is false
// for an unknown item.
func (c Checklist) With(item ChecklistItem, value bool) (Checklist, bool) {
	f := c.field(item)
	if f == nil {
		return c, false
	}
	*f = value
	return c, true
}

func (c Checklist) Get(item ChecklistItem) (bool, bool) {
	f := c.field(item)
	if f == nil {
		return false, false
	}
	return *f, true
}

func (c Checklist) CountDone() int {
	done := 0
	for _, item := range ChecklistItems {
		if v, _ := c.Get(item); v {
			done++
		}
	}
	return done
}

func (c Checklist) AllDone() bool {
	return c.CountDone() == len(ChecklistItems)
}

type Installation struct {
	ID                string             `json:"id"`
	DeviceID          string             `json:"deviceId" validate:"required"`
	DeviceType        string             `json:"deviceType,omitempty"`
	FacilityID        string             `json:"facilityId,omitempty"`
	FacilityName      string             `json:"facilityName,omitempty"`
	InstallationDate  string             `json:"installationDate" validate:"required,isodate"`
	EngineerID        string             `json:"engineerId" validate:"required"`
	EngineerName      string             `json:"engineerName" validate:"required"`
	Status            InstallationStatus `json:"status"`
	Checklist         Checklist          `json:"checklist"`
	TrainingCompleted bool               `json:"trainingCompleted"`
	TrainingDate      *string            `json:"trainingDate,omitempty"`
	TrainedPersonnel  []string           `json:"trainedPersonnel,omitempty"`
	Photos            []Attachment       `json:"photos"`
	Notes             string             `json:"notes,omitempty"`
	CompletionDate    *string            `json:"completionDate,omitempty"`
	CreatedAt         string             `json:"createdAt,omitempty"`
	UpdatedAt         string             `json:"updatedAt,omitempty"`
}

func (i Installation) Key() string { return i.ID }

type Part struct {
	Name       string `json:"name"`
	PartNumber string `json:"partNumber"`
	Quantity   int    `json:"quantity"`
}

type ServiceVisit struct {
	ID                string       `json:"id"`
	DeviceID          string       `json:"deviceId" validate:"required"`
	DeviceType        string       `json:"deviceType,omitempty"`
	FacilityID        string       `json:"facilityId,omitempty"`
	FacilityName      string       `json:"facilityName,omitempty"`
	VisitDate         string       `json:"visitDate" validate:"required,isodate"`
	EngineerID        string       `json:"engineerId" validate:"required"`
	EngineerName      string       `json:"engineerName" validate:"required"`
	Purpose           VisitPurpose `json:"purpose" validate:"required,oneof=Preventive Breakdown Installation Calibration Upgrade"`
	Status            VisitStatus  `json:"status" validate:"omitempty,oneof=Scheduled 'In Progress' Completed Cancelled"`
	Description       string       `json:"description" validate:"required"`
	WorkPerformed     []string     `json:"workPerformed"`
	PartsUsed         []Part       `json:"partsUsed"`
	TimeSpent         int          `json:"timeSpent" validate:"min=0"`
	NextServiceDate   *string      `json:"nextServiceDate,omitempty" validate:"omitempty,isodate"`
	Photos            []Attachment `json:"photos"`
	Attachments       []Attachment `json:"attachments"`
	Notes             string       `json:"notes,omitempty"`
	CustomerSignature *string      `json:"customerSignature,omitempty"`
	CompletionDate    *string      `json:"completionDate,omitempty"`
	CreatedAt         string       `json:"createdAt,omitempty"`
	UpdatedAt         string       `json:"updatedAt,omitempty"`
}

func (v ServiceVisit) Key() string { return v.ID }

type Contract struct {
	ID               string           `json:"id"`
	ContractNumber   string           `json:"contractNumber" validate:"required,contractnumber"`
	Type             ContractType     `json:"type" validate:"required,oneof=AMC CMC"`
	DeviceID         string           `json:"deviceId" validate:"required"`
	DeviceType       string           `json:"deviceType,omitempty"`
	FacilityID       string           `json:"facilityId,omitempty"`
	FacilityName     string           `json:"facilityName,omitempty"`
	StartDate        string           `json:"startDate" validate:"required,isodate"`
	EndDate          string           `json:"endDate" validate:"required,isodate"`
	Status           ContractStatus   `json:"status"`
	Value            float64          `json:"value" validate:"min=0"`
	Currency         string           `json:"currency,omitempty"`
	ServiceFrequency ServiceFrequency `json:"serviceFrequency,omitempty" validate:"omitempty,oneof=Monthly Quarterly Semi-Annual Annual"`
	NextServiceDate  *string          `json:"nextServiceDate,omitempty" validate:"omitempty,isodate"`
	ServicesIncluded []string         `json:"servicesIncluded,omitempty"`
	ContactPerson    string           `json:"contactPerson" validate:"required"`
	ContactEmail     string           `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone     string           `json:"contactPhone,omitempty" validate:"omitempty,phone"`
	Vendor           string           `json:"vendor" validate:"required"`
	VendorContact    string           `json:"vendorContact,omitempty" validate:"omitempty,email"`
	Notes            string           `json:"notes,omitempty"`
	Documents        []Attachment     `json:"documents"`
	RenewalNotified  bool             `json:"renewalNotified"`
	AutoRenewal      bool             `json:"autoRenewal"`
	CreatedAt        string           `json:"createdAt,omitempty"`
	UpdatedAt        string           `json:"updatedAt,omitempty"`
}

func (c Contract) Key() string { return c.ID }

type PhotoMetadata struct {
	Camera      string  `json:"camera,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	GPSLocation *string `json:"gpsLocation,omitempty"`
}

type PhotoLog struct {
	ID                    string        `json:"id"`
	DeviceID              string        `json:"deviceId" validate:"required"`
	DeviceType            string        `json:"deviceType,omitempty"`
	FacilityID            string        `json:"facilityId,omitempty"`
	FacilityName          string        `json:"facilityName,omitempty"`
	Filename              string        `json:"filename" validate:"required"`
	OriginalName          string        `json:"originalName,omitempty"`
	Description           string        `json:"description,omitempty"`
	Category              PhotoCategory `json:"category" validate:"required,oneof='Condition Check' 'Issue Documentation' Installation 'Service Visit' Maintenance General"`
	UploadDate            string        `json:"uploadDate"`
	UploadedBy            string        `json:"uploadedBy,omitempty"`
	FileSize              int64         `json:"fileSize,omitempty"`
	MimeType              string        `json:"mimeType,omitempty"`
	Tags                  []string      `json:"tags"`
	Location              string        `json:"location,omitempty"`
	Notes                 string        `json:"notes,omitempty"`
	IsAlert               bool          `json:"isAlert"`
	AlertLevel            *AlertLevel   `json:"alertLevel,omitempty" validate:"omitempty,oneof=Low Medium High Critical"`
	RelatedServiceVisitID *string       `json:"relatedServiceVisitId,omitempty"`
	RelatedInstallationID *string       `json:"relatedInstallationId,omitempty"`
	Metadata              PhotoMetadata `json:"metadata"`
	BlobKey               string        `json:"blobKey,omitempty"`
}

func (p PhotoLog) Key() string { return p.ID }

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country,omitempty"`
}

type ContactInfo struct {
	Phone   string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"website,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type OperatingHours struct {
	Weekdays string `json:"weekdays,omitempty"`
	Weekends string `json:"weekends,omitempty"`
	Holidays string `json:"holidays,omitempty"`
}

type Facility struct {
	ID                string         `json:"id"`
	Name              string         `json:"name" validate:"required"`
	Type              string         `json:"type" validate:"required"`
	Address           Address        `json:"address"`
	ContactInfo       ContactInfo    `json:"contactInfo"`
	PrimaryContact    Contact        `json:"primaryContact"`
	TechnicalContact  Contact        `json:"technicalContact"`
	Departments       []string       `json:"departments"`
	OperatingHours    OperatingHours `json:"operatingHours"`
	Notes             string         `json:"notes,omitempty"`
	Status            FacilityStatus `json:"status"`
	ContractStartDate *string        `json:"contractStartDate,omitempty"`
	ContractEndDate   *string        `json:"contractEndDate,omitempty"`
	DeviceCount       int            `json:"deviceCount"`
	LastVisitDate     *string        `json:"lastVisitDate,omitempty"`
	CreatedAt         string         `json:"createdAt,omitempty"`
	UpdatedAt         string         `json:"updatedAt,omitempty"`
}

func (f Facility) Key() string { return f.ID }

// State is the whole persisted tree. Field names are the persisted layout.
type State struct {
	Devices       []Device       `json:"devices"`
	Installations []Installation `json:"installations"`
	ServiceVisits []ServiceVisit `json:"serviceVisits"`
	Contracts     []Contract     `json:"contracts"`
	PhotoLogs     []PhotoLog     `json:"photoLogs"`
	Facilities    []Facility     `json:"facilities"`
}

func EmptyState() State {
	return State{
		Devices:       []Device{},
		Installations: []Installation{},
		ServiceVisits: []ServiceVisit{},
		Contracts:     []Contract{},
		PhotoLogs:     []PhotoLog{},
		Facilities:    []Facility{},
	}
}

// Snapshot is the storage row holding one serialized State.
type Snapshot struct {
	Key       string `gorm:"primaryKey"`
	Payload   []byte
	UpdatedAt time.Time
}
