package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type DeviceQuery struct {
	Search   string `zog:"search"`
	Status   string `zog:"status"`
	Facility string `zog:"facility"`
}

var deviceQuerySchema = z.Struct(z.Shape{
	"Search":   z.String().Trim(),
	"Status":   z.String(),
	"Facility": z.String(),
})

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	var q DeviceQuery
	if err := deviceQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, tracker.FilterDevices(rs.Tracker.State().Devices, tracker.DeviceFilter{
		Search:   q.Search,
		Status:   q.Status,
		Facility: q.Facility,
	}))
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	device, ok := tracker.FindDevice(rs.Tracker.State(), c.Param("id"))
	respondFound(c, device, ok)
}

func (rs *RestfulServer) CreateDevice(c *gin.Context) {
	device, ok := bindEntity[models.Device](c)
	if !ok {
		return
	}
	state, ok := rs.dispatch(c, tracker.AddDevice{Device: device})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, state.Devices[len(state.Devices)-1])
}

func (rs *RestfulServer) UpdateDevice(c *gin.Context) {
	device, ok := bindEntity[models.Device](c)
	if !ok {
		return
	}
	rs.respondDevice(c, tracker.UpdateDevice{ID: c.Param("id"), Device: device})
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	if _, ok := rs.dispatch(c, tracker.DeleteDevice{ID: c.Param("id")}); ok {
		c.Status(http.StatusNoContent)
	}
}

func (rs *RestfulServer) SetDeviceStatus(c *gin.Context) {
	var req StatusRequest
	if err := statusRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondDevice(c, tracker.SetDeviceStatus{ID: c.Param("id"), Status: models.DeviceStatus(req.Status)})
}

type BatteryRequest struct {
	BatteryLevel int `json:"batteryLevel" zog:"batteryLevel"`
}

// 0 is a legal level, so presence is not enforced here
var batteryRequestSchema = z.Struct(z.Shape{
	"BatteryLevel": z.Int(),
})

func (rs *RestfulServer) SetBatteryLevel(c *gin.Context) {
	var req BatteryRequest
	if err := batteryRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondDevice(c, tracker.SetBatteryLevel{ID: c.Param("id"), BatteryLevel: req.BatteryLevel})
}

func (rs *RestfulServer) respondDevice(c *gin.Context, intent tracker.Intent) {
	state, ok := rs.dispatch(c, intent)
	if !ok {
		return
	}
	device, found := tracker.FindDevice(state, c.Param("id"))
	respondFound(c, device, found)
}
