package handlers

import (
	"github.com/gin-gonic/gin"

	"surveyserver/models"
	"surveyserver/services"
)

type siteQuery struct {
	Roots bool `form:"roots"` // only sites without a parent
}

func (a *API) SiteList(c *gin.Context) {
	opts, ok := a.listOptions(c)
	q := siteQuery{}
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	sites, err := a.Service.ListSites(c.Request.Context(), opts, q.Roots)
	a.listed(c, sites, err)
}

func (a *API) SiteCreate(c *gin.Context) {
	payload := models.SiteCreate{}
	if !a.bind(c, &payload) {
		return
	}
	site := payload.Site()
	a.created(c, site, a.Service.CreateSite(c.Request.Context(), site))
}

func (a *API) SiteSubSites(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	opts, ok := a.listOptions(c)
	if !ok {
		return
	}
	sites, err := a.Service.ListSubSites(c.Request.Context(), id, opts)
	a.listed(c, sites, err)
}

func (a *API) SiteSurveys(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	q := surveyQuery{}
	opts, ok := a.listOptions(c)
	if !ok || !a.bindQuery(c, &q) {
		return
	}
	surveys, err := a.Service.ListSurveys(c.Request.Context(), opts, services.SurveyFilter{SiteID: &id, IsLatest: q.IsLatest})
	a.listed(c, surveys, err)
}

func (a *API) SiteSurveyCreate(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	payload := models.SurveyCreate{}
	if !a.bind(c, &payload) {
		return
	}
	survey := payload.Survey(id)
	a.created(c, survey, a.Service.CreateSurvey(c.Request.Context(), survey))
}
