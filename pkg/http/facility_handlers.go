package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type FacilityQuery struct {
	Search       string `zog:"search"`
	Status       string `zog:"status"`
	Type         string `zog:"type"`
	ContractsDue int    `zog:"contractsDue"`
	Expired      bool   `zog:"expired"`
}

var facilityQuerySchema = z.Struct(z.Shape{
	"Search":       z.String().Trim(),
	"Status":       z.String(),
	"Type":         z.String(),
	"ContractsDue": z.Int(),
	"Expired":      z.Bool(),
})

// ListFacilities filters by search, status and type. expired=true keeps
// facilities whose contract has ended, contractsDue=N those ending within N
// days.
func (rs *RestfulServer) ListFacilities(c *gin.Context) {
	var q FacilityQuery
	if err := facilityQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		badRequest(c, err)
		return
	}

	state := rs.Tracker.State()
	facilities := state.Facilities
	switch {
	case q.Expired:
		facilities = tracker.FacilitiesWithExpiredContracts(state, rs.now())
	case q.ContractsDue > 0:
		facilities = tracker.FacilitiesWithExpiringContracts(state, rs.now(), q.ContractsDue)
	}
	c.JSON(http.StatusOK, tracker.FilterFacilities(facilities, tracker.FacilityFilter{
		Search: q.Search,
		Status: q.Status,
		Type:   q.Type,
	}))
}

func (rs *RestfulServer) GetFacility(c *gin.Context) {
	facility, ok := tracker.FindFacility(rs.Tracker.State(), c.Param("id"))
	respondFound(c, facility, ok)
}

func (rs *RestfulServer) CreateFacility(c *gin.Context) {
	facility, ok := bindEntity[models.Facility](c)
	if !ok {
		return
	}
	state, ok := rs.dispatch(c, tracker.AddFacility{Facility: facility})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, state.Facilities[len(state.Facilities)-1])
}

func (rs *RestfulServer) UpdateFacility(c *gin.Context) {
	facility, ok := bindEntity[models.Facility](c)
	if !ok {
		return
	}
	rs.respondFacility(c, tracker.UpdateFacility{ID: c.Param("id"), Facility: facility})
}

func (rs *RestfulServer) DeleteFacility(c *gin.Context) {
	if _, ok := rs.dispatch(c, tracker.DeleteFacility{ID: c.Param("id")}); ok {
		c.Status(http.StatusNoContent)
	}
}

type DeviceCountRequest struct {
	Count int `json:"count" zog:"count"`
}

var deviceCountRequestSchema = z.Struct(z.Shape{
	"Count": z.Int(),
})

func (rs *RestfulServer) SetFacilityDeviceCount(c *gin.Context) {
	var req DeviceCountRequest
	if err := deviceCountRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondFacility(c, tracker.SetFacilityDeviceCount{FacilityID: c.Param("id"), Count: req.Count})
}

type LastVisitRequest struct {
	VisitDate string `json:"visitDate" zog:"visitDate"`
}

var lastVisitRequestSchema = z.Struct(z.Shape{
	"VisitDate": z.String().Trim().Required(),
})

func (rs *RestfulServer) SetFacilityLastVisit(c *gin.Context) {
	var req LastVisitRequest
	if err := lastVisitRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondFacility(c, tracker.SetFacilityLastVisit{FacilityID: c.Param("id"), VisitDate: req.VisitDate})
}

func (rs *RestfulServer) SetFacilityStatus(c *gin.Context) {
	var req StatusRequest
	if err := statusRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondFacility(c, tracker.SetFacilityStatus{FacilityID: c.Param("id"), Status: models.FacilityStatus(req.Status)})
}

type DepartmentRequest struct {
	Department string `json:"department" zog:"department"`
}

var departmentRequestSchema = z.Struct(z.Shape{
	"Department": z.String().Trim().Required(),
})

func (rs *RestfulServer) AddFacilityDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := departmentRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondFacility(c, tracker.AddFacilityDepartment{FacilityID: c.Param("id"), Department: req.Department})
}

func (rs *RestfulServer) RemoveFacilityDepartment(c *gin.Context) {
	rs.respondFacility(c, tracker.RemoveFacilityDepartment{FacilityID: c.Param("id"), Department: c.Param("department")})
}

func (rs *RestfulServer) respondFacility(c *gin.Context, intent tracker.Intent) {
	state, ok := rs.dispatch(c, intent)
	if !ok {
		return
	}
	facility, found := tracker.FindFacility(state, c.Param("id"))
	respondFound(c, facility, found)
}
