package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/medical-device-tracker/pkg/blob"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/export"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"
)

type RestfulServer struct {
	Server           *gin.Engine
	Tracker          *tracker.Tracker
	Blobs            blob.Store
	RateLimiterStore *RateLimiterStore
	Metrics          *Metrics
	// Now is used for export file names, time.Now when nil.
	Now func() time.Time
}

func (rs *RestfulServer) now() time.Time {
	if rs.Now != nil {
		return rs.Now()
	}
	return time.Now()
}

// dispatch hands intent to the tracker and counts the outcome. On error the
// response has already been written.
func (rs *RestfulServer) dispatch(c *gin.Context, intent tracker.Intent) (models.State, bool) {
	state, err := rs.Tracker.Dispatch(c.Request.Context(), intent)
	if rs.Metrics != nil {
		outcome := outcomeApplied
		if err != nil {
			outcome = outcomeRejected
		}
		rs.Metrics.Intents.WithLabelValues(intent.Name(), outcome).Inc()
	}
	if err != nil {
		writeError(c, err)
		return state, false
	}
	return state, true
}

func writeError(c *gin.Context, err error) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, blob.ErrNotFound),
		errors.Is(err, export.ErrUnknownCollection),
		errors.Is(err, export.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tracker.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, err any) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err})
}

func (rs *RestfulServer) Setup() {
	if rs.Metrics == nil {
		rs.Metrics = NewMetrics()
	}

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", rs.Metrics.Handler())

	api := rs.Server.Group("/", rs.RateLimit())

	api.GET("/dashboard", rs.GetDashboard)
	api.GET("/export/:collection", rs.ExportCollection)
	api.GET("/scan/:deviceId", rs.ScanDevice)

	devices := api.Group("/devices")
	{
		devices.GET("", rs.ListDevices)
		devices.POST("", rs.CreateDevice)
		devices.GET("/:id", rs.GetDevice)
		devices.PUT("/:id", rs.UpdateDevice)
		devices.DELETE("/:id", rs.DeleteDevice)
		devices.POST("/:id/status", rs.SetDeviceStatus)
		devices.POST("/:id/battery", rs.SetBatteryLevel)
	}

	installations := api.Group("/installations")
	{
		installations.GET("", rs.ListInstallations)
		installations.POST("", rs.CreateInstallation)
		installations.GET("/:id", rs.GetInstallation)
		installations.PUT("/:id", rs.UpdateInstallation)
		installations.DELETE("/:id", rs.DeleteInstallation)
		installations.POST("/:id/checklist", rs.SetChecklistItem)
		installations.POST("/:id/training", rs.SetTraining)
		installations.POST("/:id/photos", rs.AddInstallationPhoto)
		installations.DELETE("/:id/photos/:photoId", rs.RemoveInstallationPhoto)
	}

	visits := api.Group("/service-visits")
	{
		visits.GET("", rs.ListServiceVisits)
		visits.POST("", rs.CreateServiceVisit)
		visits.GET("/:id", rs.GetServiceVisit)
		visits.PUT("/:id", rs.UpdateServiceVisit)
		visits.DELETE("/:id", rs.DeleteServiceVisit)
		visits.POST("/:id/work", rs.AddWorkPerformed)
		visits.DELETE("/:id/work/:index", rs.RemoveWorkPerformed)
		visits.POST("/:id/parts", rs.AddPartUsed)
		visits.DELETE("/:id/parts/:index", rs.RemovePartUsed)
		visits.POST("/:id/photos", rs.AddVisitFile(tracker.VisitPhoto))
		visits.DELETE("/:id/photos/:fileId", rs.RemoveVisitFile(tracker.VisitPhoto))
		visits.POST("/:id/attachments", rs.AddVisitFile(tracker.VisitAttachment))
		visits.DELETE("/:id/attachments/:fileId", rs.RemoveVisitFile(tracker.VisitAttachment))
		visits.POST("/:id/complete", rs.CompleteServiceVisit)
	}

	contracts := api.Group("/contracts")
	{
		contracts.GET("", rs.ListContracts)
		contracts.POST("", rs.CreateContract)
		contracts.GET("/renewal-due", rs.ListContractsNeedingRenewal)
		contracts.POST("/refresh", rs.RefreshContractStatuses)
		contracts.GET("/:id", rs.GetContract)
		contracts.PUT("/:id", rs.UpdateContract)
		contracts.DELETE("/:id", rs.DeleteContract)
		contracts.POST("/:id/renew", rs.RenewContract)
		contracts.POST("/:id/notified", rs.MarkRenewalNotified)
		contracts.POST("/:id/documents", rs.AddContractDocument)
		contracts.DELETE("/:id/documents/:documentId", rs.RemoveContractDocument)
	}

	photos := api.Group("/photo-logs")
	{
		photos.GET("", rs.ListPhotoLogs)
		photos.POST("", rs.UploadPhoto)
		photos.POST("/bulk-delete", rs.BulkDeletePhotoLogs)
		photos.GET("/:id", rs.GetPhotoLog)
		photos.PUT("/:id", rs.UpdatePhotoLog)
		photos.DELETE("/:id", rs.DeletePhotoLog)
		photos.GET("/:id/file", rs.DownloadPhoto)
		photos.POST("/:id/tags", rs.AddPhotoTag)
		photos.DELETE("/:id/tags/:tag", rs.RemovePhotoTag)
		photos.POST("/:id/alert", rs.SetPhotoAlert)
	}

	facilities := api.Group("/facilities")
	{
		facilities.GET("", rs.ListFacilities)
		facilities.POST("", rs.CreateFacility)
		facilities.GET("/:id", rs.GetFacility)
		facilities.PUT("/:id", rs.UpdateFacility)
		facilities.DELETE("/:id", rs.DeleteFacility)
		facilities.POST("/:id/device-count", rs.SetFacilityDeviceCount)
		facilities.POST("/:id/last-visit", rs.SetFacilityLastVisit)
		facilities.POST("/:id/status", rs.SetFacilityStatus)
		facilities.POST("/:id/departments", rs.AddFacilityDepartment)
		facilities.DELETE("/:id/departments/:department", rs.RemoveFacilityDepartment)
	}
}
