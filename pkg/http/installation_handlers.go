package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

// InstallationView adds the derived completion percentage.
type InstallationView struct {
	models.Installation
	CompletionPercent int `json:"completionPercent"`
}

func viewInstallation(inst models.Installation) InstallationView {
	return InstallationView{Installation: inst, CompletionPercent: tracker.CompletionPercent(inst)}
}

type InstallationQuery struct {
	DeviceID string `zog:"deviceId"`
	Pending  bool   `zog:"pending"`
}

var installationQuerySchema = z.Struct(z.Shape{
	"DeviceID": z.String(),
	"Pending":  z.Bool(),
})

func (rs *RestfulServer) ListInstallations(c *gin.Context) {
	var q InstallationQuery
	if err := installationQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		badRequest(c, err)
		return
	}

	state := rs.Tracker.State()
	var installations []models.Installation
	switch {
	case q.Pending:
		installations = tracker.PendingInstallations(state)
	case q.DeviceID != "":
		installations = tracker.InstallationsByDevice(state, q.DeviceID)
	default:
		installations = state.Installations
	}
	views := make([]InstallationView, 0, len(installations))
	for _, inst := range installations {
		views = append(views, viewInstallation(inst))
	}
	c.JSON(http.StatusOK, views)
}

func (rs *RestfulServer) GetInstallation(c *gin.Context) {
	inst, ok := tracker.FindInstallation(rs.Tracker.State(), c.Param("id"))
	respondFound(c, viewInstallation(inst), ok)
}

func (rs *RestfulServer) CreateInstallation(c *gin.Context) {
	inst, ok := bindEntity[models.Installation](c)
	if !ok {
		return
	}
	state, ok := rs.dispatch(c, tracker.AddInstallation{Installation: inst})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, viewInstallation(state.Installations[len(state.Installations)-1]))
}

func (rs *RestfulServer) UpdateInstallation(c *gin.Context) {
	inst, ok := bindEntity[models.Installation](c)
	if !ok {
		return
	}
	rs.respondInstallation(c, tracker.UpdateInstallation{ID: c.Param("id"), Installation: inst})
}

func (rs *RestfulServer) DeleteInstallation(c *gin.Context) {
	if _, ok := rs.dispatch(c, tracker.DeleteInstallation{ID: c.Param("id")}); ok {
		c.Status(http.StatusNoContent)
	}
}

type ChecklistRequest struct {
	Item  string `json:"item" zog:"item"`
	Value bool   `json:"value" zog:"value"`
}

var checklistRequestSchema = z.Struct(z.Shape{
	"Item":  z.String().Required(),
	"Value": z.Bool(),
})

func (rs *RestfulServer) SetChecklistItem(c *gin.Context) {
	var req ChecklistRequest
	if err := checklistRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondInstallation(c, tracker.SetChecklistItem{
		ID:    c.Param("id"),
		Item:  models.ChecklistItem(req.Item),
		Value: req.Value,
	})
}

type TrainingRequest struct {
	Completed        bool     `json:"completed" zog:"completed"`
	Date             *string  `json:"date" zog:"date"`
	TrainedPersonnel []string `json:"trainedPersonnel" zog:"trainedPersonnel"`
}

var trainingRequestSchema = z.Struct(z.Shape{
	"Completed":        z.Bool(),
	"Date":             z.Ptr(z.String()),
	"TrainedPersonnel": z.Slice(z.String().Trim()),
})

func (rs *RestfulServer) SetTraining(c *gin.Context) {
	var req TrainingRequest
	if err := trainingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondInstallation(c, tracker.SetTraining{
		ID:               c.Param("id"),
		Completed:        req.Completed,
		Date:             req.Date,
		TrainedPersonnel: req.TrainedPersonnel,
	})
}

func (rs *RestfulServer) AddInstallationPhoto(c *gin.Context) {
	photo, ok := parseAttachment(c)
	if !ok {
		return
	}
	rs.respondInstallation(c, tracker.AddInstallationPhoto{InstallationID: c.Param("id"), Photo: photo})
}

func (rs *RestfulServer) RemoveInstallationPhoto(c *gin.Context) {
	rs.respondInstallation(c, tracker.RemoveInstallationPhoto{
		InstallationID: c.Param("id"),
		PhotoID:        c.Param("photoId"),
	})
}

func (rs *RestfulServer) respondInstallation(c *gin.Context, intent tracker.Intent) {
	state, ok := rs.dispatch(c, intent)
	if !ok {
		return
	}
	inst, found := tracker.FindInstallation(state, c.Param("id"))
	respondFound(c, viewInstallation(inst), found)
}
