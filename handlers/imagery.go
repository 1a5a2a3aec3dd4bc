package handlers

import (
	"github.com/gin-gonic/gin"

	"surveyserver/apperr"
	"surveyserver/models"
	"surveyserver/services"
)

type imageryQuery struct {
	SurveyID     *uint   `form:"survey_id" binding:"omitempty,min=1"`
	Kind         *string `form:"kind"`
	Level        *int    `form:"level"`
	CustomMarker *string `form:"custom_marker"`
}

func (a *API) imageryFilter(c *gin.Context) (services.ImageryFilter, bool) {
	q := imageryQuery{}
	if !a.bindQuery(c, &q) {
		return services.ImageryFilter{}, false
	}
	filter := services.ImageryFilter{SurveyID: q.SurveyID, Level: q.Level, CustomMarker: q.CustomMarker}
	if q.Kind != nil {
		kind := models.ImageryKind(*q.Kind)
		if !kind.Valid() {
			a.fail(c, apperr.InvalidArgument("kind", "must be one of photo, spherical_pano, cubic_pano"))
			return filter, false
		}
		filter.Kind = &kind
	}
	return filter, true
}

func (a *API) ImageryList(c *gin.Context) {
	filter, ok := a.imageryFilter(c)
	if !ok {
		return
	}
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	imagery, err := a.Service.ListImagery(c.Request.Context(), opts, filter)
	a.listed(c, imagery, err)
}

func (a *API) ImageryHotspots(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	hotspots, err := a.Service.ListHotspots(c.Request.Context(), id, opts)
	a.listed(c, hotspots, err)
}

func (a *API) ImageryHotspotCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.HotspotCreate{}
	if !a.bind(c, &payload) {
		return
	}
	hotspot := payload.Hotspot(id)
	a.created(c, hotspot, a.Service.CreateHotspot(c.Request.Context(), hotspot))
}
