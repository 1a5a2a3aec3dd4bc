package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surveyserver/models"
	"surveyserver/services"
)

type surveyQuery struct {
	SiteID   *uint `form:"site_id" binding:"omitempty,min=1"`
	IsLatest *bool `form:"is_latest"`
}

func (a *API) SurveyList(c *gin.Context) {
	q := surveyQuery{}
	opts, ok := a.listOptions(c)
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	surveys, err := a.Service.ListSurveys(c.Request.Context(), opts, services.SurveyFilter{SiteID: q.SiteID, IsLatest: q.IsLatest})
	a.listed(c, surveys, err)
}

// SurveyPromote makes the survey the latest of its site
func (a *API) SurveyPromote(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	survey, err := a.Service.PromoteSurvey(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

type levelQuery struct {
	Level *int `form:"level"`
}

func (a *API) SurveyOverlays(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	q := levelQuery{}
	opts, ok := a.listOptions(c)
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	overlays, err := a.Service.ListOverlays(c.Request.Context(), opts, services.OverlayFilter{SurveyID: &id, Level: q.Level})
	a.listed(c, overlays, err)
}

func (a *API) SurveyOverlayCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.OverlayCreate{}
	if !a.bind(c, &payload) {
		return
	}
	overlay := payload.Overlay(id)
	a.created(c, overlay, a.Service.CreateOverlay(c.Request.Context(), overlay))
}

func (a *API) SurveyAssets(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	q := assetQuery{}
	opts, ok := a.listOptions(c)
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	assets, err := a.Service.ListAssets(c.Request.Context(), opts, services.AssetFilter{SurveyID: &id, AssetTypeID: q.AssetTypeID, Level: q.Level})
	a.listed(c, assets, err)
}

func (a *API) SurveyAssetCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.AssetCreate{}
	if !a.bind(c, &payload) {
		return
	}
	asset := payload.Asset(id)
	a.created(c, asset, a.Service.CreateAsset(c.Request.Context(), asset))
}

func (a *API) SurveyImagery(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	filter, ok := a.imageryFilter(c)
	if !ok {
		return
	}
	filter.SurveyID = &id
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	imagery, err := a.Service.ListImagery(c.Request.Context(), opts, filter)
	a.listed(c, imagery, err)
}

func (a *API) SurveyImageryCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.ImageryCreate{}
	if !a.bind(c, &payload) {
		return
	}
	imagery := payload.Imagery(id)
	a.created(c, imagery, a.Service.CreateImagery(c.Request.Context(), imagery))
}
