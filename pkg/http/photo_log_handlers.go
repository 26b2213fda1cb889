package http

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/medical-device-tracker/pkg/blob"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type PhotoQuery struct {
	Search         string `zog:"search"`
	DeviceID       string `zog:"deviceId"`
	Category       string `zog:"category"`
	AlertLevel     string `zog:"alertLevel"`
	From           string `zog:"from"`
	To             string `zog:"to"`
	Alerts         bool   `zog:"alerts"`
	ServiceVisitID string `zog:"serviceVisitId"`
	InstallationID string `zog:"installationId"`
	Recent         int    `zog:"recent"`
}

var photoQuerySchema = z.Struct(z.Shape{
	"Search":         z.String().Trim(),
	"DeviceID":       z.String(),
	"Category":       z.String(),
	"AlertLevel":     z.String(),
	"From":           z.String(),
	"To":             z.String(),
	"Alerts":         z.Bool(),
	"ServiceVisitID": z.String(),
	"InstallationID": z.String(),
	"Recent":         z.Int(),
})

func (rs *RestfulServer) ListPhotoLogs(c *gin.Context) {
	var q PhotoQuery
	if err := photoQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		badRequest(c, err)
		return
	}

	state := rs.Tracker.State()
	if q.Alerts {
		state.PhotoLogs = tracker.AlertPhotoLogs(state)
	}
	if q.ServiceVisitID != "" {
		state.PhotoLogs = tracker.PhotoLogsByServiceVisit(state, q.ServiceVisitID)
	}
	if q.InstallationID != "" {
		state.PhotoLogs = tracker.PhotoLogsByInstallation(state, q.InstallationID)
	}
	state.PhotoLogs = tracker.FilterPhotoLogs(state.PhotoLogs, tracker.PhotoFilter{
		Search:     q.Search,
		DeviceID:   q.DeviceID,
		Category:   q.Category,
		AlertLevel: q.AlertLevel,
		From:       q.From,
		To:         q.To,
	})
	if q.Recent > 0 {
		state.PhotoLogs = tracker.RecentPhotoLogs(state, q.Recent)
	}
	c.JSON(http.StatusOK, state.PhotoLogs)
}

func (rs *RestfulServer) GetPhotoLog(c *gin.Context) {
	photo, ok := tracker.FindPhotoLog(rs.Tracker.State(), c.Param("id"))
	respondFound(c, photo, ok)
}

func optionalForm(c *gin.Context, key string) *string {
	if v := strings.TrimSpace(c.PostForm(key)); v != "" {
		return &v
	}
	return nil
}

// UploadPhoto takes a multipart form with the image under "file" and the
// photo log fields alongside it. The image is stored first and removed again
// if the log entry is rejected.
func (rs *RestfulServer) UploadPhoto(c *gin.Context) {
	logger := common.GetCategoryLogger(common.LoggerNameRestfulServer, common.LoggerCategoryBlob)

	if rs.Blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage is not configured"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"file": "Photo file is required"}})
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if problems := tracker.ValidatePhotoUpload(mimeType, header.Size); len(problems) > 0 {
		rs.countUpload(outcomeRejected)
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"file": strings.Join(problems, " ")}})
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	key := "photos/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	info, err := rs.Blobs.Put(c.Request.Context(), key, file, blob.PutOptions{
		ContentType: mimeType,
		Metadata:    map[string]string{"originalName": header.Filename},
	})
	if err != nil {
		logger.Error("Failed to store photo", zap.String("key", key), zap.Error(err))
		writeError(c, err)
		return
	}
	logger.Info("Stored photo", zap.String("key", key), zap.String("driver", string(rs.Blobs.Driver())), zap.Int64("size", info.Size))

	photo := models.PhotoLog{
		DeviceID:              c.PostForm("deviceId"),
		DeviceType:            c.PostForm("deviceType"),
		FacilityID:            c.PostForm("facilityId"),
		FacilityName:          c.PostForm("facilityName"),
		Filename:              path.Base(key),
		OriginalName:          header.Filename,
		Description:           c.PostForm("description"),
		Category:              models.PhotoCategory(c.DefaultPostForm("category", string(models.PhotoCategoryGeneral))),
		UploadedBy:            c.PostForm("uploadedBy"),
		FileSize:              info.Size,
		MimeType:              mimeType,
		Tags:                  c.PostFormArray("tags"),
		Location:              c.PostForm("location"),
		Notes:                 c.PostForm("notes"),
		IsAlert:               c.PostForm("isAlert") == "true",
		RelatedServiceVisitID: optionalForm(c, "relatedServiceVisitId"),
		RelatedInstallationID: optionalForm(c, "relatedInstallationId"),
		Metadata: models.PhotoMetadata{
			Camera:      c.PostForm("camera"),
			GPSLocation: optionalForm(c, "gpsLocation"),
		},
		BlobKey: key,
	}
	if level := optionalForm(c, "alertLevel"); level != nil {
		l := models.AlertLevel(*level)
		photo.AlertLevel = &l
	}

	state, ok := rs.dispatch(c, tracker.AddPhotoLog{PhotoLog: photo})
	if !ok {
		rs.countUpload(outcomeRejected)
		if _, err := rs.Blobs.Delete(c.Request.Context(), key); err != nil {
			logger.Warn("Failed to remove orphaned photo", zap.String("key", key), zap.Error(err))
		}
		return
	}
	rs.countUpload(outcomeApplied)
	c.JSON(http.StatusCreated, state.PhotoLogs[0])
}

func (rs *RestfulServer) DownloadPhoto(c *gin.Context) {
	photo, ok := tracker.FindPhotoLog(rs.Tracker.State(), c.Param("id"))
	if !ok || photo.BlobKey == "" || rs.Blobs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	info, body, err := rs.Blobs.Get(c.Request.Context(), photo.BlobKey)
	if err != nil {
		writeError(c, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = photo.MimeType
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", photo.Filename),
	})
}

func (rs *RestfulServer) UpdatePhotoLog(c *gin.Context) {
	photo, ok := bindEntity[models.PhotoLog](c)
	if !ok {
		return
	}
	rs.respondPhotoLog(c, tracker.UpdatePhotoLog{ID: c.Param("id"), PhotoLog: photo})
}

// removeBlobs drops stored images of deleted log entries. The entries are
// already gone so failures are only logged.
func (rs *RestfulServer) removeBlobs(c *gin.Context, keys []string) {
	if rs.Blobs == nil {
		return
	}
	logger := common.GetCategoryLogger(common.LoggerNameRestfulServer, common.LoggerCategoryBlob)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, err := rs.Blobs.Delete(c.Request.Context(), key); err != nil {
			logger.Warn("Failed to remove photo", zap.String("key", key), zap.Error(err))
		}
	}
}

func (rs *RestfulServer) DeletePhotoLog(c *gin.Context) {
	photo, _ := tracker.FindPhotoLog(rs.Tracker.State(), c.Param("id"))
	if _, ok := rs.dispatch(c, tracker.DeletePhotoLog{ID: c.Param("id")}); !ok {
		return
	}
	rs.removeBlobs(c, []string{photo.BlobKey})
	c.Status(http.StatusNoContent)
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" zog:"ids"`
}

var bulkDeleteRequestSchema = z.Struct(z.Shape{
	"IDs": z.Slice(z.String()).Required(),
})

func (rs *RestfulServer) BulkDeletePhotoLogs(c *gin.Context) {
	var req BulkDeleteRequest
	if err := bulkDeleteRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}

	var keys []string
	for _, id := range req.IDs {
		if photo, ok := tracker.FindPhotoLog(rs.Tracker.State(), id); ok {
			keys = append(keys, photo.BlobKey)
		}
	}
	if _, ok := rs.dispatch(c, tracker.BulkDeletePhotoLogs{IDs: req.IDs}); !ok {
		return
	}
	rs.removeBlobs(c, keys)
	c.Status(http.StatusNoContent)
}

type TagRequest struct {
	Tag string `json:"tag" zog:"tag"`
}

var tagRequestSchema = z.Struct(z.Shape{
	"Tag": z.String().Trim().Required(),
})

func (rs *RestfulServer) AddPhotoTag(c *gin.Context) {
	var req TagRequest
	if err := tagRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondPhotoLog(c, tracker.AddPhotoTag{PhotoID: c.Param("id"), Tag: req.Tag})
}

func (rs *RestfulServer) RemovePhotoTag(c *gin.Context) {
	rs.respondPhotoLog(c, tracker.RemovePhotoTag{PhotoID: c.Param("id"), Tag: c.Param("tag")})
}

type AlertRequest struct {
	IsAlert    bool    `json:"isAlert" zog:"isAlert"`
	AlertLevel *string `json:"alertLevel" zog:"alertLevel"`
}

var alertRequestSchema = z.Struct(z.Shape{
	"IsAlert":    z.Bool(),
	"AlertLevel": z.Ptr(z.String()),
})

func (rs *RestfulServer) SetPhotoAlert(c *gin.Context) {
	var req AlertRequest
	if err := alertRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	intent := tracker.SetPhotoAlert{PhotoID: c.Param("id"), IsAlert: req.IsAlert}
	if req.AlertLevel != nil {
		level := models.AlertLevel(*req.AlertLevel)
		intent.AlertLevel = &level
	}
	rs.respondPhotoLog(c, intent)
}

func (rs *RestfulServer) respondPhotoLog(c *gin.Context, intent tracker.Intent) {
	state, ok := rs.dispatch(c, intent)
	if !ok {
		return
	}
	photo, found := tracker.FindPhotoLog(state, c.Param("id"))
	respondFound(c, photo, found)
}
