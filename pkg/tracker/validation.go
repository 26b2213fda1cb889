package tracker

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const MaxPhotoSize = 10 * 1024 * 1024

var AllowedPhotoTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif"}

var (
	deviceIDPattern       = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
	contractNumberPattern = regexp.MustCompile(`^(AMC|CMC)-\d{4}-\d{3}$`)
	phonePattern          = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneNoise            = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		mustRegister(v, "deviceid", func(fl validator.FieldLevel) bool {
			return deviceIDPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "contractnumber", func(fl validator.FieldLevel) bool {
			return contractNumberPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(phoneNoise.Replace(fl.Field().String()))
		})
		mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// messages overrides the generic text for a "path|tag" pair.
var messages = map[string]string{
	"deviceId|deviceid":             "Device ID must be alphanumeric with optional hyphens",
	"model|max":                     "Model must be less than 100 characters",
	"serialNumber|alphanum":         "Serial number must be alphanumeric",
	"facilityId|required":           "Facility is required",
	"batteryLevel|min":              "Battery level must be between 0 and 100",
	"batteryLevel|max":              "Battery level must be between 0 and 100",
	"contractNumber|contractnumber": "Contract number format: AMC-YYYY-NNN or CMC-YYYY-NNN",
	"value|min":                     "Contract value must be a positive number",
	"timeSpent|min":                 "Time spent must be a positive number",
	"contactEmail|email":            "Invalid contact email",
	"vendorContact|email":           "Invalid vendor contact email",
	"primaryContact.email|email":    "Invalid primary contact email",
	"technicalContact.email|email":  "Invalid technical contact email",
}

var labels = map[string]string{
	"deviceId":         "Device ID",
	"type":             "Type",
	"model":            "Model",
	"serialNumber":     "Serial number",
	"location":         "Location",
	"manufacturer":     "Manufacturer",
	"installationDate": "Installation date",
	"engineerId":       "Engineer ID",
	"engineerName":     "Engineer name",
	"visitDate":        "Visit date",
	"purpose":          "Purpose",
	"description":      "Description",
	"contractNumber":   "Contract number",
	"startDate":        "Start date",
	"endDate":          "End date",
	"contactPerson":    "Contact person",
	"vendor":           "Vendor",
	"name":             "Name",
	"filename":         "Filename",
	"category":         "Category",
	"address.street":   "Street address",
	"address.city":     "City",
	"address.zipCode":  "ZIP code",
}

// fieldPath turns "Facility.address.city" into "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(path string, fe validator.FieldError) string {
	if msg, ok := messages[path+"|"+fe.Tag()]; ok {
		return msg
	}
	label, ok := labels[path]
	if !ok {
		label = path[strings.LastIndex(path, ".")+1:]
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "phone":
		return "Invalid phone number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	}
	return "Invalid " + strings.ToLower(label)
}

func validateStruct(record any) map[string]string {
	err := getValidator().Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		path := fieldPath(fe)
		if _, seen := fields[path]; !seen {
			fields[path] = fieldMessage(path, fe)
		}
	}
	return fields
}

func checkDateOrder(fields map[string]string, start string, end *string, field string, message string) map[string]string {
	if end == nil || *end == "" || start == "" {
		return fields
	}
	s, err1 := models.ParseDate(start)
	e, err2 := models.ParseDate(*end)
	if err1 != nil || err2 != nil || !e.Before(s) {
		return fields
	}
	if fields == nil {
		fields = map[string]string{}
	}
	fields[field] = message
	return fields
}

func asError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func ValidateDevice(d models.Device) error {
	fields := validateStruct(d)
	if d.PurchaseDate != nil {
		fields = checkDateOrder(fields, *d.PurchaseDate, d.WarrantyExpiry, "warrantyExpiry", "Warranty expiry must be after purchase date")
	}
	return asError(fields)
}

func ValidateInstallation(i models.Installation) error {
	return asError(validateStruct(i))
}

func ValidateServiceVisit(v models.ServiceVisit) error {
	fields := validateStruct(v)
	fields = checkDateOrder(fields, v.VisitDate, v.NextServiceDate, "nextServiceDate", "Next service date must be after visit date")
	return asError(fields)
}

func ValidateContract(c models.Contract) error {
	fields := validateStruct(c)
	fields = checkDateOrder(fields, c.StartDate, &c.EndDate, "endDate", "End date must be after start date")
	return asError(fields)
}

func ValidatePhotoLog(p models.PhotoLog) error {
	return asError(validateStruct(p))
}

func ValidateFacility(f models.Facility) error {
	return asError(validateStruct(f))
}

// ValidatePhotoUpload checks an incoming image before it is stored.
func ValidatePhotoUpload(mimeType string, size int64) []string {
	var problems []string
	allowed := false
	for _, t := range AllowedPhotoTypes {
		if strings.EqualFold(t, mimeType) {
			allowed = true
			break
		}
	}
	if !allowed {
		problems = append(problems, "File type not supported. Please upload JPEG, PNG, or GIF images.")
	}
	if size > MaxPhotoSize {
		problems = append(problems, "File size too large. Maximum size is 10MB.")
	}
	return problems
}
