package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type ContractQuery struct {
	Search   string `zog:"search"`
	Status   string `zog:"status"`
	Type     string `zog:"type"`
	DeviceID string `zog:"deviceId"`
}

var contractQuerySchema = z.Struct(z.Shape{
	"Search":   z.String().Trim(),
	"Status":   z.String(),
	"Type":     z.String(),
	"DeviceID": z.String(),
})

func (rs *RestfulServer) ListContracts(c *gin.Context) {
	var q ContractQuery
	if err := contractQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		badRequest(c, err)
		return
	}

	state := rs.Tracker.State()
	contracts := state.Contracts
	if q.DeviceID != "" {
		contracts = tracker.ContractsByDevice(state, q.DeviceID)
	}
	c.JSON(http.StatusOK, tracker.FilterContracts(contracts, tracker.ContractFilter{
		Search: q.Search,
		Status: q.Status,
		Type:   q.Type,
	}))
}

func (rs *RestfulServer) ListContractsNeedingRenewal(c *gin.Context) {
	c.JSON(http.StatusOK, tracker.ContractsNeedingRenewal(rs.Tracker.State()))
}

func (rs *RestfulServer) GetContract(c *gin.Context) {
	contract, ok := tracker.FindContract(rs.Tracker.State(), c.Param("id"))
	respondFound(c, contract, ok)
}

func (rs *RestfulServer) CreateContract(c *gin.Context) {
	contract, ok := bindEntity[models.Contract](c)
	if !ok {
		return
	}
	state, ok := rs.dispatch(c, tracker.AddContract{Contract: contract})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, state.Contracts[len(state.Contracts)-1])
}

func (rs *RestfulServer) UpdateContract(c *gin.Context) {
	contract, ok := bindEntity[models.Contract](c)
	if !ok {
		return
	}
	rs.respondContract(c, tracker.UpdateContract{ID: c.Param("id"), Contract: contract})
}

func (rs *RestfulServer) DeleteContract(c *gin.Context) {
	if _, ok := rs.dispatch(c, tracker.DeleteContract{ID: c.Param("id")}); ok {
		c.Status(http.StatusNoContent)
	}
}

// RefreshContractStatuses re-classifies every contract against today.
func (rs *RestfulServer) RefreshContractStatuses(c *gin.Context) {
	state, ok := rs.dispatch(c, tracker.RefreshContractStatuses{})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, state.Contracts)
}

type RenewRequest struct {
	NewEndDate string   `json:"newEndDate" zog:"newEndDate"`
	NewValue   *float64 `json:"newValue" zog:"newValue"`
}

var renewRequestSchema = z.Struct(z.Shape{
	"NewEndDate": z.String().Trim().Required(),
	"NewValue":   z.Ptr(z.Float64()),
})

func (rs *RestfulServer) RenewContract(c *gin.Context) {
	var req RenewRequest
	if err := renewRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		badRequest(c, err)
		return
	}
	rs.respondContract(c, tracker.RenewContract{ID: c.Param("id"), NewEndDate: req.NewEndDate, NewValue: req.NewValue})
}

func (rs *RestfulServer) MarkRenewalNotified(c *gin.Context) {
	rs.respondContract(c, tracker.MarkRenewalNotified{ID: c.Param("id")})
}

func (rs *RestfulServer) AddContractDocument(c *gin.Context) {
	doc, ok := parseAttachment(c)
	if !ok {
		return
	}
	rs.respondContract(c, tracker.AddContractDocument{ContractID: c.Param("id"), Document: doc})
}

func (rs *RestfulServer) RemoveContractDocument(c *gin.Context) {
	rs.respondContract(c, tracker.RemoveContractDocument{ContractID: c.Param("id"), DocumentID: c.Param("documentId")})
}

func (rs *RestfulServer) respondContract(c *gin.Context, intent tracker.Intent) {
	state, ok := rs.dispatch(c, intent)
	if !ok {
		return
	}
	contract, found := tracker.FindContract(state, c.Param("id"))
	respondFound(c, contract, found)
}
