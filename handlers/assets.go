package handlers

import (
	"github.com/gin-gonic/gin"

	"surveyserver/models"
	"surveyserver/services"
)

type assetQuery struct {
	SurveyID    *uint `form:"survey_id" binding:"omitempty,min=1"`
	AssetTypeID *uint `form:"asset_type_id" binding:"omitempty,min=1"`
	Level       *int  `form:"level"`
}

type overlayQuery struct {
	SurveyID *uint `form:"survey_id" binding:"omitempty,min=1"`
	Level    *int  `form:"level"`
}

func (a *API) OverlayList(c *gin.Context) {
	q := overlayQuery{}
	opts, ok := a.listOptions(c)
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	overlays, err := a.Service.ListOverlays(c.Request.Context(), opts, services.OverlayFilter{SurveyID: q.SurveyID, Level: q.Level})
	a.listed(c, overlays, err)
}

func (a *API) AssetList(c *gin.Context) {
	q := assetQuery{}
	opts, ok := a.listOptions(c)
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	assets, err := a.Service.ListAssets(c.Request.Context(), opts, services.AssetFilter{SurveyID: q.SurveyID, AssetTypeID: q.AssetTypeID, Level: q.Level})
	a.listed(c, assets, err)
}

func (a *API) AssetProperties(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	properties, err := a.Service.ListAssetProperties(c.Request.Context(), id, opts)
	a.listed(c, properties, err)
}

func (a *API) AssetPropertyCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.AssetPropertyCreate{}
	if !a.bind(c, &payload) {
		return
	}
	property := payload.AssetProperty(id)
	a.created(c, property, a.Service.CreateAssetProperty(c.Request.Context(), property))
}

func (a *API) AssetTypeList(c *gin.Context) {
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	assetTypes, err := services.List[models.AssetType](c.Request.Context(), a.Service, opts)
	a.listed(c, assetTypes, err)
}

func (a *API) AssetTypeCreate(c *gin.Context) {
	payload := models.AssetTypeCreate{}
	if !a.bind(c, &payload) {
		return
	}
	assetType := payload.AssetType()
	a.created(c, assetType, a.Service.CreateAssetType(c.Request.Context(), assetType))
}

func (a *API) AssetTypePropertyNames(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	names, err := a.Service.ListPropertyNames(c.Request.Context(), id, opts)
	a.listed(c, names, err)
}

func (a *API) AssetTypePropertyNameCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.AssetPropertyNameCreate{}
	if !a.bind(c, &payload) {
		return
	}
	name := models.NewAssetPropertyName(id, payload.Name)
	a.created(c, name, a.Service.CreatePropertyName(c.Request.Context(), name))
}
