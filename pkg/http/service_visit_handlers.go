package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type VisitQuery struct {
	Search   string `zog:"search"`
	Purpose  string `zog:"purpose"`
	Status   string `zog:"status"`
	DeviceID string `zog:"deviceId"`
	Pending  bool   `zog:"pending"`
}

var visitQuerySchema = z.Struct(z.Shape{
	"Search":   z.String().Trim(),
	"Purpose":  z.String(),
	"Status":   z.String(),
	"DeviceID": z.String(),
	"Pending":  z.Bool(),
})

func (rs *RestfulServer) ListServiceVisits(c *gin.Context) {
	var q VisitQuery
	if err := visitQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		badRequest(c, err)
		return
	}

	state := rs.Tracker.State()
	visits := state.ServiceVisits
	if q.Pending {
		visits = tracker.PendingServiceVisits(state)
	}
	if q.DeviceID != "" {
		visits = tracker.ServiceVisitsByDevice(models.State{ServiceVisits: visits}, q.DeviceID)
	}
	c.JSON(http.StatusOK, tracker.FilterServiceVisits(visits, tracker.VisitFilter{
		Search:  q.Search,
		Purpose: q.Purpose,
		Status:  q.Status,
	}))
}

func (rs *RestfulServer) GetServiceVisit(c *gin.Context) {
	visit, ok := tracker.FindServiceVisit(rs.Tracker.State(), c.Param("id"))
	respondFound(c, visit, ok)
}

func (rs *RestfulServer) CreateServiceVisit(c *gin.Context) {
	visit, ok := bindEntity[models.ServiceVisit](c)
	if !ok {
		return
	}
	state, ok := rs.dispatch(c, tracker.AddServiceVisit{Visit: visit})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, state.ServiceVisits[len(state.ServiceVisits)-1])
}

func (rs *RestfulServer) UpdateServiceVisit(c *gin.Context) {
	visit, ok := bindEntity[models.ServiceVisit](c)
	if !ok {
		return
	}
	rs.respondVisit(c, tracker.UpdateServiceVisit{ID: c.Param("id"), Visit: visit})
}

func (rs *RestfulServer) DeleteServiceVisit(c *gin.Context) {
	if _, ok := rs.dispatch(c, tracker.DeleteServiceVisit{ID: c.Param("id")}); ok {
		c.Status(http.StatusNoContent)
	}
}

type WorkRequest struct {
	Work string `json:"work" zog:"work"`
}

var workRequestSchema = z.Struct(z.Shape{
	"Work": z.String().Trim().Required(),
})

func (rs *RestfulServer) AddWorkPerformed(c *gin.Context) {
	var req WorkRequest
	if err := workRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondVisit(c, tracker.AddWorkPerformed{VisitID: c.Param("id"), Work: req.Work})
}

func pathIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "index must be a number")
		return 0, false
	}
	return index, true
}

func (rs *RestfulServer) RemoveWorkPerformed(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	rs.respondVisit(c, tracker.RemoveWorkPerformed{VisitID: c.Param("id"), Index: index})
}

type PartRequest struct {
	Name       string `json:"name" zog:"name"`
	PartNumber string `json:"partNumber" zog:"partNumber"`
	Quantity   int    `json:"quantity" zog:"quantity"`
}

var partRequestSchema = z.Struct(z.Shape{
	"Name":       z.String().Trim().Required(),
	"PartNumber": z.String().Trim(),
	"Quantity":   z.Int(),
})

func (rs *RestfulServer) AddPartUsed(c *gin.Context) {
	var req PartRequest
	if err := partRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondVisit(c, tracker.AddPartUsed{VisitID: c.Param("id"), Part: models.Part{
		Name:       req.Name,
		PartNumber: req.PartNumber,
		Quantity:   req.Quantity,
	}})
}

func (rs *RestfulServer) RemovePartUsed(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	rs.respondVisit(c, tracker.RemovePartUsed{VisitID: c.Param("id"), Index: index})
}

func (rs *RestfulServer) AddVisitFile(kind tracker.VisitFile) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, ok := parseAttachment(c)
		if !ok {
			return
		}
		rs.respondVisit(c, tracker.AddVisitFile{VisitID: c.Param("id"), Kind: kind, File: file})
	}
}

func (rs *RestfulServer) RemoveVisitFile(kind tracker.VisitFile) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs.respondVisit(c, tracker.RemoveVisitFile{VisitID: c.Param("id"), Kind: kind, FileID: c.Param("fileId")})
	}
}

type CompleteRequest struct {
	CustomerSignature string `json:"customerSignature" zog:"customerSignature"`
	CompletionNotes   string `json:"completionNotes" zog:"completionNotes"`
}

var completeRequestSchema = z.Struct(z.Shape{
	"CustomerSignature": z.String().Trim(),
	"CompletionNotes":   z.String(),
})

func (rs *RestfulServer) CompleteServiceVisit(c *gin.Context) {
	var req CompleteRequest
	if err := completeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondVisit(c, tracker.CompleteServiceVisit{
		VisitID:           c.Param("id"),
		CustomerSignature: req.CustomerSignature,
		CompletionNotes:   req.CompletionNotes,
	})
}

func (rs *RestfulServer) respondVisit(c *gin.Context, intent tracker.Intent) {
	state, ok := rs.dispatch(c, intent)
	if !ok {
		return
	}
	visit, found := tracker.FindServiceVisit(state, c.Param("id"))
	respondFound(c, visit, found)
}
