package models

type DeviceStatus string

const (
	DeviceStatusOnline      DeviceStatus = "Online"
	DeviceStatusOffline     DeviceStatus = "Offline"
	DeviceStatusMaintenance DeviceStatus = "Maintenance"
)

type InstallationStatus string

const (
	InstallationStatusInProgress InstallationStatus = "In Progress"
	InstallationStatusCompleted  InstallationStatus = "Completed"
)

type VisitPurpose string

const (
	VisitPurposePreventive   VisitPurpose = "Preventive"
	VisitPurposeBreakdown    VisitPurpose = "Breakdown"
	VisitPurposeInstallation VisitPurpose = "Installation"
	VisitPurposeCalibration  VisitPurpose = "Calibration"
	VisitPurposeUpgrade      VisitPurpose = "Upgrade"
)

type VisitStatus string

const (
	VisitStatusScheduled  VisitStatus = "Scheduled"
	VisitStatusInProgress VisitStatus = "In Progress"
	VisitStatusCompleted  VisitStatus = "Completed"
	VisitStatusCancelled  VisitStatus = "Cancelled"
)

type ContractType string

const (
	ContractTypeAMC ContractType = "AMC"
	ContractTypeCMC ContractType = "CMC"
)

type ContractStatus string

const (
	ContractStatusActive       ContractStatus = "Active"
	ContractStatusExpiringSoon ContractStatus = "Expiring Soon"
	ContractStatusExpired      ContractStatus = "Expired"
)

type ServiceFrequency string

const (
	ServiceFrequencyMonthly    ServiceFrequency = "Monthly"
	ServiceFrequencyQuarterly  ServiceFrequency = "Quarterly"
	ServiceFrequencySemiAnnual ServiceFrequency = "Semi-Annual"
	ServiceFrequencyAnnual     ServiceFrequency = "Annual"
)

type PhotoCategory string

const (
	PhotoCategoryConditionCheck     PhotoCategory = "Condition Check"
	PhotoCategoryIssueDocumentation PhotoCategory = "Issue Documentation"
	PhotoCategoryInstallation       PhotoCategory = "Installation"
	PhotoCategoryServiceVisit       PhotoCategory = "Service Visit"
	PhotoCategoryMaintenance        PhotoCategory = "Maintenance"
	PhotoCategoryGeneral            PhotoCategory = "General"
)

type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "Low"
	AlertLevelMedium   AlertLevel = "Medium"
	AlertLevelHigh     AlertLevel = "High"
	AlertLevelCritical AlertLevel = "Critical"
)

type FacilityStatus string

const (
	FacilityStatusActive   FacilityStatus = "Active"
	FacilityStatusInactive FacilityStatus = "Inactive"
)

// FilterAll is the categorical filter value that disables the filter.
const FilterAll = "All"
