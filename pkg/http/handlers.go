package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/export"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

// bindEntity decodes a whole record from the body. Field rules are checked
// by the tracker so the messages match the forms.
func bindEntity[T any](c *gin.Context) (T, bool) {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		badRequest(c, err.Error())
		return v, false
	}
	return v, true
}

func respondFound[T any](c *gin.Context, v T, ok bool) {
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

type StatusRequest struct {
	Status string `json:"status" zog:"status"`
}

var statusRequestSchema = z.Struct(z.Shape{
	"Status": z.String().Required(),
})

type AttachmentRequest struct {
	Filename    string `json:"filename" zog:"filename"`
	Description string `json:"description" zog:"description"`
	BlobKey     string `json:"blobKey" zog:"blobKey"`
}

var attachmentRequestSchema = z.Struct(z.Shape{
	"Filename":    z.String().Trim().Required(),
	"Description": z.String(),
	"BlobKey":     z.String(),
})

func parseAttachment(c *gin.Context) (models.Attachment, bool) {
	var req AttachmentRequest
	if err := attachmentRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return models.Attachment{}, false
	}
	return models.Attachment{
		Filename:    req.Filename,
		Description: req.Description,
		BlobKey:     req.BlobKey,
	}, true
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, tracker.Dashboard(rs.Tracker.State()))
}

func (rs *RestfulServer) ExportCollection(c *gin.Context) {
	collection := c.Param("collection")
	logger := common.GetCategoryLogger(common.LoggerNameRestfulServer, common.LoggerCategoryExport)

	filename, body, err := export.ExportCollection(rs.Tracker.State(), collection, rs.now())
	if err != nil {
		logger.Info("Export refused", zap.String("collection", collection), zap.Error(err))
		writeError(c, err)
		return
	}
	if rs.Metrics != nil {
		rs.Metrics.Exports.WithLabelValues(collection).Inc()
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// DeviceHistory is what a QR scan of a device label shows.
type DeviceHistory struct {
	Device        models.Device         `json:"device"`
	Installations []models.Installation `json:"installations"`
	ServiceVisits []models.ServiceVisit `json:"serviceVisits"`
	Contracts     []models.Contract     `json:"contracts"`
	PhotoLogs     []models.PhotoLog     `json:"photoLogs"`
}

func (rs *RestfulServer) ScanDevice(c *gin.Context) {
	state := rs.Tracker.State()
	device, ok := tracker.FindDeviceByDeviceID(state, c.Param("deviceId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	c.JSON(http.StatusOK, DeviceHistory{
		Device:        device,
		Installations: tracker.InstallationsByDevice(state, device.DeviceID),
		ServiceVisits: tracker.ServiceVisitsByDevice(state, device.DeviceID),
		Contracts:     tracker.ContractsByDevice(state, device.DeviceID),
		PhotoLogs:     tracker.PhotoLogsByDevice(state, device.DeviceID),
	})
}
