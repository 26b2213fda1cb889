package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

var ErrUnknownCollection = errors.New("unknown collection")

const (
	CollectionDevices       = "devices"
	CollectionInstallations = "installations"
	CollectionServiceVisits = "service_visits"
	CollectionContracts     = "contracts"
	CollectionPhotoLogs     = "photo_logs"
	CollectionFacilities    = "facilities"
)

var Collections = []string{
	CollectionDevices,
	CollectionInstallations,
	CollectionServiceVisits,
	CollectionContracts,
	CollectionPhotoLogs,
	CollectionFacilities,
}

var DeviceHeaders = []Header{
	{"deviceId", "Device ID"},
	{"type", "Type"},
	{"model", "Model"},
	{"serialNumber", "Serial Number"},
	{"facilityName", "Facility"},
	{"location", "Location"},
	{"status", "Status"},
	{"batteryLevel", "Battery Level (%)"},
	{"manufacturer", "Manufacturer"},
	{"purchaseDate", "Purchase Date"},
	{"warrantyExpiry", "Warranty Expiry"},
	{"lastServiceDate", "Last Service Date"},
	{"lastInstallationDate", "Last Installation Date"},
	{"amcStatus", "AMC Status"},
	{"cmcStatus", "CMC Status"},
	{"notes", "Notes"},
}

var InstallationHeaders = []Header{
	{"deviceId", "Device ID"},
	{"deviceType", "Device Type"},
	{"facilityName", "Facility"},
	{"installationDate", "Installation Date"},
	{"engineerName", "Engineer"},
	{"status", "Status"},
	{"trainingCompleted", "Training Completed"},
	{"trainingDate", "Training Date"},
	{"completionDate", "Completion Date"},
	{"notes", "Notes"},
}

var ServiceVisitHeaders = []Header{
	{"deviceId", "Device ID"},
	{"deviceType", "Device Type"},
	{"facilityName", "Facility"},
	{"visitDate", "Visit Date"},
	{"engineerName", "Engineer"},
	{"purpose", "Purpose"},
	{"status", "Status"},
	{"description", "Description"},
	{"timeSpent", "Time Spent (minutes)"},
	{"nextServiceDate", "Next Service Date"},
	{"customerSignature", "Customer Signature"},
	{"completionDate", "Completion Date"},
	{"notes", "Notes"},
}

var ContractHeaders = []Header{
	{"contractNumber", "Contract Number"},
	{"type", "Type"},
	{"deviceId", "Device ID"},
	{"deviceType", "Device Type"},
	{"facilityName", "Facility"},
	{"startDate", "Start Date"},
	{"endDate", "End Date"},
	{"status", "Status"},
	{"value", "Value"},
	{"currency", "Currency"},
	{"serviceFrequency", "Service Frequency"},
	{"contactPerson", "Contact Person"},
	{"contactEmail", "Contact Email"},
	{"contactPhone", "Contact Phone"},
	{"vendor", "Vendor"},
	{"vendorContact", "Vendor Contact"},
	{"autoRenewal", "Auto Renewal"},
	{"notes", "Notes"},
}

var PhotoLogHeaders = []Header{
	{"filename", "Filename"},
	{"description", "Description"},
	{"deviceId", "Device ID"},
	{"deviceType", "Device Type"},
	{"facilityName", "Facility"},
	{"category", "Category"},
	{"uploadDate", "Upload Date"},
	{"uploadedBy", "Uploaded By"},
	{"location", "Location"},
	{"isAlert", "Is Alert"},
	{"alertLevel", "Alert Level"},
	{"tags", "Tags"},
	{"notes", "Notes"},
}

var FacilityHeaders = []Header{
	{"id", "Facility ID"},
	{"name", "Name"},
	{"type", "Type"},
	{"address.street", "Street Address"},
	{"address.city", "City"},
	{"address.state", "State"},
	{"address.zipCode", "ZIP Code"},
	{"address.country", "Country"},
	{"contactInfo.phone", "Phone"},
	{"contactInfo.email", "Email"},
	{"primaryContact.name", "Primary Contact"},
	{"primaryContact.email", "Primary Contact Email"},
	{"technicalContact.name", "Technical Contact"},
	{"technicalContact.email", "Technical Contact Email"},
	{"status", "Status"},
	{"deviceCount", "Device Count"},
	{"lastVisitDate", "Last Visit Date"},
	{"notes", "Notes"},
}

// Filename is the download name, e.g. devices_export_2024-06-15.csv.
func Filename(collection string, now time.Time) string {
	return fmt.Sprintf("%s_export_%s.csv", collection, models.FormatDate(now))
}

type photoLogRow struct {
	Filename     string               `json:"filename"`
	Description  string               `json:"description"`
	DeviceID     string               `json:"deviceId"`
	DeviceType   string               `json:"deviceType"`
	FacilityName string               `json:"facilityName"`
	Category     models.PhotoCategory `json:"category"`
	UploadDate   string               `json:"uploadDate"`
	UploadedBy   string               `json:"uploadedBy"`
	Location     string               `json:"location"`
	IsAlert      string               `json:"isAlert"`
	AlertLevel   *models.AlertLevel   `json:"alertLevel"`
	Tags         string               `json:"tags"`
	Notes        string               `json:"notes"`
}

// photoLogRows flattens tags and spells out the alert flag.
func photoLogRows(logs []models.PhotoLog) []photoLogRow {
	return common.Mapper(logs, func(p models.PhotoLog) photoLogRow {
		isAlert := "No"
		if p.IsAlert {
			isAlert = "Yes"
		}
		return photoLogRow{
			Filename:     p.Filename,
			Description:  p.Description,
			DeviceID:     p.DeviceID,
			DeviceType:   p.DeviceType,
			FacilityName: p.FacilityName,
			Category:     p.Category,
			UploadDate:   p.UploadDate,
			UploadedBy:   p.UploadedBy,
			Location:     p.Location,
			IsAlert:      isAlert,
			AlertLevel:   p.AlertLevel,
			Tags:         strings.Join(p.Tags, ", "),
			Notes:        p.Notes,
		}
	})
}

// ExportCollection renders one collection of state and names the file.
func ExportCollection(state models.State, collection string, now time.Time) (string, string, error) {
	logger := common.GetCategoryLogger(common.LoggerNameTracker, common.LoggerCategoryExport)

	var (
		body string
		err  error
	)
	switch collection {
	case CollectionDevices:
		body, err = ToCSV(state.Devices, DeviceHeaders)
	case CollectionInstallations:
		body, err = ToCSV(state.Installations, InstallationHeaders)
	case CollectionServiceVisits:
		body, err = ToCSV(state.ServiceVisits, ServiceVisitHeaders)
	case CollectionContracts:
		body, err = ToCSV(state.Contracts, ContractHeaders)
	case CollectionPhotoLogs:
		body, err = ToCSV(photoLogRows(state.PhotoLogs), PhotoLogHeaders)
	case CollectionFacilities:
		body, err = ToCSV(state.Facilities, FacilityHeaders)
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	if err != nil {
		return "", "", err
	}

	filename := Filename(collection, now)
	logger.Info("Exported collection", zap.String("collection", collection), zap.String("filename", filename))
	return filename, body, nil
}
